// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
)

type startRequest struct {
	DeviceUUID string `json:"deviceUuid"`
	Email      string `json:"email"`
	SKFormat   string `json:"skFormat"`
	SKID       string `json:"skid"`
	UserUUID   string `json:"userUuid"`
}

type startResponse struct {
	Status    string   `json:"status"`
	SessionID string   `json:"sessionID"`
	KeyFormat string   `json:"accountKeyFormat"`
	KeyUUID   string   `json:"accountKeyUuid"`
	Auth      userAuth `json:"userAuth"`
}

type userAuth struct {
	Method     string `json:"method"`
	Algorithm  string `json:"alg"`
	Iterations int    `json:"iterations"`
	Salt       string `json:"salt"`
}

type deviceInfo struct {
	UUID          string `json:"uuid"`
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	OSName        string `json:"osName"`
	OSVersion     string `json:"osVersion"`
	Name          string `json:"name"`
	Model         string `json:"model"`
}

type successResponse struct {
	Success int `json:"success"`
}

type srpRequest struct {
	SessionID string `json:"sessionID"`
	UserA     string `json:"userA"`
}

type srpResponse struct {
	SessionID string `json:"sessionID"`
	UserB     string `json:"userB"`
}

type verifyRequest struct {
	SessionID        string     `json:"sessionID"`
	ClientVerifyHash string     `json:"clientVerifyHash"`
	Client           string     `json:"client"`
	Device           deviceInfo `json:"device"`
}

type verifyResponse struct {
	ServerVerifyHash string   `json:"serverVerifyHash"`
	MFA              *mfaInfo `json:"mfa"`
}

type mfaInfo struct {
	TOTP       enabled  `json:"totp"`
	RememberMe enabled  `json:"dsecret"`
	WebAuthn   webAuthn `json:"webAuthn"`
	Duo        duoInfo  `json:"duo"`
}

type enabled struct {
	Enabled bool `json:"enabled"`
}

type webAuthn struct {
	Enabled    bool     `json:"enabled"`
	Challenge  string   `json:"challenge"`
	KeyHandles []string `json:"keyHandles"`
}

type duoInfo struct {
	Enabled    bool   `json:"enabled"`
	Host       string `json:"host"`
	SigRequest string `json:"sigRequest"`
	AuthURL    string `json:"authURL"`
}

type mfaResponse struct {
	RememberMeToken string `json:"dsecret"`
}

type accountInfo struct {
	Vaults []vaultInfo `json:"vaults"`
}

type vaultInfo struct {
	UUID       string        `json:"uuid"`
	Attributes encrypted     `json:"encAttrs"`
	Access     []vaultAccess `json:"access"`
}

type vaultAccess struct {
	VaultUUID   string    `json:"vaultUuid"`
	EncVaultKey encrypted `json:"encVaultKey"`
	ACL         int       `json:"acl"`
}

type vaultAttributes struct {
	Name        string `json:"name"`
	Description string `json:"desc"`
	Type        string `json:"type"`
}

type keysetsResponse struct {
	Keysets []keyset `json:"keysets"`
}

type keyset struct {
	UUID        string     `json:"uuid"`
	EncryptedBy string     `json:"encryptedBy"`
	EncSymKey   encrypted  `json:"encSymKey"`
	EncPriKey   *encrypted `json:"encPriKey"`
	Serial      int        `json:"sn"`
}

type itemsBatch struct {
	ContentVersion int         `json:"contentVersion"`
	BatchComplete  bool        `json:"batchComplete"`
	Items          []vaultItem `json:"items"`
}

type vaultItem struct {
	UUID         string    `json:"uuid"`
	TemplateUUID string    `json:"templateUuid"`
	Trashed      string    `json:"trashed"`
	Overview     encrypted `json:"encOverview"`
	Details      encrypted `json:"encDetails"`
}

// session is an authenticated, MAC signed connection. Every payload in
// both directions is encrypted with the SRP session key.
type session struct {
	id     string
	rest   *adapter.RestClient
	key    *keychain.Key
	keys   *keychain.Keychain
	random io.Reader
}

func newSession(rest *adapter.RestClient, key *keychain.Key, seed uint32, random io.Reader) (*session, error) {
	keys := keychain.New()
	if err := keys.Add(key); err != nil {
		return nil, err
	}

	return &session{
		id:     key.ID,
		rest:   rest.WithSigner(newMACSigner(key, seed).sign),
		key:    key,
		keys:   keys,
		random: random,
	}, nil
}

func getEncrypted[T any](ctx context.Context, s *session, endpoint string) (T, error) {
	return sendEncrypted[T](ctx, s, http.MethodGet, endpoint, nil)
}

// sendEncrypted encrypts body, when there is one, and decrypts the answer
// into T.
func sendEncrypted[T any](ctx context.Context, s *session, method, endpoint string, body any) (T, error) {
	var zero T

	var payload []byte
	if body != nil {
		plaintext, err := json.Marshal(body)
		if err != nil {
			return zero, app.Internal("onepassword: encode request", err)
		}
		container, err := encrypt(s.key, plaintext, s.random)
		if err != nil {
			return zero, app.Internal("onepassword: encrypt request", err)
		}
		if payload, err = json.Marshal(container); err != nil {
			return zero, app.Internal("onepassword: encode request", err)
		}
	}

	headers := map[string]string{}
	if payload != nil {
		headers["Content-Type"] = adapter.ContentTypeJSON
	}

	resp, err := s.rest.Do(ctx, method, endpoint, payload, headers, nil)
	if err != nil {
		return zero, err
	}
	if !resp.IsSuccess() {
		return zero, mapResponseError(resp)
	}

	container, err := adapter.DecodeJSON[encrypted](resp)
	if err != nil {
		return zero, err
	}

	out, err := decryptJSON[T](container, s.keys)
	if err != nil {
		return zero, app.InvalidResponse("onepassword: decrypt response", err).WithRequest(resp.RequestURL, resp.StatusCode)
	}
	return out, nil
}

// sendJSON is the plain JSON exchange used before the session key exists.
func sendJSON[T any](ctx context.Context, rest *adapter.RestClient, method, endpoint string, body any) (T, error) {
	var zero T

	var (
		resp *adapter.Response
		err  error
	)
	if method == http.MethodPut {
		resp, err = rest.PutJSON(ctx, endpoint, body, nil)
	} else {
		resp, err = rest.PostJSON(ctx, endpoint, body, nil)
	}
	if err != nil {
		return zero, err
	}
	if !resp.IsSuccess() {
		return zero, mapResponseError(resp)
	}

	return adapter.DecodeJSON[T](resp)
}
