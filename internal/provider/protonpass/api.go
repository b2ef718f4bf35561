// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protonpass

import (
	"context"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
)

// authSession is issued by auth/v4/sessions and auth/v4/refresh.
type authSession struct {
	UID          string `json:"UID"`
	AccessToken  string `json:"AccessToken"`
	RefreshToken string `json:"RefreshToken"`
}

type authInfoRequest struct {
	Username string `json:"Username"`
	Intent   string `json:"Intent"`
}

type authInfo struct {
	Version         int    `json:"Version"`
	Modulus         string `json:"Modulus"`
	ServerEphemeral string `json:"ServerEphemeral"`
	Salt            string `json:"Salt"`
	SRPSession      string `json:"SRPSession"`
}

type authRequest struct {
	Username        string `json:"Username"`
	ClientEphemeral string `json:"ClientEphemeral"`
	ClientProof     string `json:"ClientProof"`
	SRPSession      string `json:"SRPSession"`
}

type authResponse struct {
	authSession
	ServerProof string   `json:"ServerProof"`
	Scopes      []string `json:"Scopes"`
	TwoFactor   struct {
		// Enabled is a bit set of mfaTOTP and mfaFIDO2.
		Enabled int `json:"Enabled"`
	} `json:"2FA"`
}

type refreshRequest struct {
	UID          string `json:"UID"`
	RefreshToken string `json:"RefreshToken"`
	ResponseType string `json:"ResponseType"`
	GrantType    string `json:"GrantType"`
	RedirectURI  string `json:"RedirectURI"`
}

type twoFactorRequest struct {
	TwoFactorCode string `json:"TwoFactorCode"`
}

type extraAuthInfo struct {
	SRPData struct {
		Version         int    `json:"Version"`
		Modulus         string `json:"Modulus"`
		ServerEphemeral string `json:"ServerEphemeral"`
		Salt            string `json:"SrpSalt"`
		SessionID       string `json:"SrpSessionID"`
	} `json:"SRPData"`
}

type extraAuthRequest struct {
	ClientEphemeral string `json:"ClientEphemeral"`
	ClientProof     string `json:"ClientProof"`
	SessionID       string `json:"SrpSessionID"`
}

type saltsResponse struct {
	KeySalts []keySalt `json:"KeySalts"`
}

type keySalt struct {
	ID      string  `json:"ID"`
	KeySalt *string `json:"KeySalt"`
}

type userResponse struct {
	User struct {
		ID   string    `json:"ID"`
		Name string    `json:"Name"`
		Keys []userKey `json:"Keys"`
	} `json:"User"`
}

type userKey struct {
	ID         string `json:"ID"`
	PrivateKey string `json:"PrivateKey"`
	Primary    int    `json:"Primary"`
}

type sharesResponse struct {
	Shares []share `json:"Shares"`
}

type shareResponse struct {
	Share share `json:"Share"`
}

type share struct {
	ShareID    string `json:"ShareID"`
	VaultID    string `json:"VaultID"`
	TargetType int    `json:"TargetType"`
	Content    string `json:"Content"`
}

type shareKeysResponse struct {
	ShareKeys struct {
		Keys  []shareKey `json:"Keys"`
		Total int        `json:"Total"`
	} `json:"ShareKeys"`
}

type shareKey struct {
	KeyRotation int    `json:"KeyRotation"`
	Key         string `json:"Key"`
	UserKeyID   string `json:"UserKeyID"`
}

type itemsResponse struct {
	Items struct {
		RevisionsData []vaultItem `json:"RevisionsData"`
		Total         int         `json:"Total"`
		LastToken     *string     `json:"LastToken"`
	} `json:"Items"`
}

type itemResponse struct {
	Item vaultItem `json:"Item"`
}

type vaultItem struct {
	ItemID      string `json:"ItemID"`
	Revision    int    `json:"Revision"`
	KeyRotation int    `json:"KeyRotation"`
	Content     string `json:"Content"`
	ItemKey     string `json:"ItemKey"`
	State       int    `json:"State"`
}

// getJSON and postJSON fail with mapResponseError on anything but 2xx.

func getJSON[T any](ctx context.Context, rest *adapter.RestClient, endpoint string) (T, error) {
	resp, err := rest.Get(ctx, endpoint, nil)
	return decode[T](resp, err)
}

func postJSON[T any](ctx context.Context, rest *adapter.RestClient, endpoint string, body any) (T, error) {
	resp, err := rest.PostJSON(ctx, endpoint, body, nil)
	return decode[T](resp, err)
}

func decode[T any](resp *adapter.Response, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if !resp.IsSuccess() {
		return zero, mapResponseError(resp)
	}
	return adapter.DecodeJSON[T](resp)
}
