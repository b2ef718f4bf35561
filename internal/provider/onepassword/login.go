// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/crypto"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/login"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/provider"
	"github.com/MKhiriev/go-vault-access/internal/srp"
	"github.com/MKhiriev/go-vault-access/internal/utils"
)

const (
	clientName    = "1Password CLI"
	clientVersion = "1120401"
	clientID      = clientName + "/" + clientVersion

	clientHeader  = "X-AgileBits-Client"
	sessionHeader = "X-AgileBits-Session-ID"

	srpMethodPrefix = "SRPg-"

	statusOK                  = "ok"
	statusDeviceNotRegistered = "device-not-registered"
	statusDeviceDeleted       = "device-deleted"
)

type loginFlow struct {
	opts       provider.Options
	rest       *adapter.RestClient
	ui         UI
	email      string
	password   string
	accountKey accountKey
	deviceID   string
	remember   mfa.RememberMe
}

func (l *loginFlow) attempt(ctx context.Context, attempt int) login.Outcome[*session] {
	s, err := l.run(ctx)
	if err != nil {
		l.opts.Logger.Debug().Int("attempt", attempt).Err(err).Msg("onepassword login attempt ended")
	}
	return login.From(s, err)
}

func (l *loginFlow) run(ctx context.Context) (*session, error) {
	start, err := l.startSession(ctx)
	if err != nil {
		return nil, err
	}

	rest := l.rest.WithHeaders(map[string]string{sessionHeader: start.SessionID})

	key, err := l.exchangeSRP(ctx, rest, start)
	if err != nil {
		return nil, err
	}

	seed, err := crypto.ReadRandom(l.opts.Random, 4)
	if err != nil {
		return nil, err
	}

	s, err := newSession(rest, key, binary.BigEndian.Uint32(seed), l.opts.Random)
	if err != nil {
		return nil, err
	}

	verified, err := sendEncrypted[verifyResponse](ctx, s, http.MethodPost, "v2/auth/verify", verifyRequest{
		SessionID:        s.id,
		ClientVerifyHash: clientHash(l.accountKey.UUID, s.id),
		Client:           clientID,
		Device:           l.device(),
	})
	if err != nil {
		return nil, err
	}

	if verified.MFA != nil {
		if err = l.secondFactor(ctx, s, verified.MFA); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// startSession opens a login session for the device. A device the server
// does not know is registered or reauthorized and the login restarts.
func (l *loginFlow) startSession(ctx context.Context) (startResponse, error) {
	endpoint := "v3/auth/start"
	start, err := sendJSON[startResponse](ctx, l.rest, http.MethodPost, endpoint, startRequest{
		DeviceUUID: l.deviceID,
		Email:      l.email,
		SKFormat:   l.accountKey.Format,
		SKID:       l.accountKey.UUID,
	})
	if err != nil {
		return startResponse{}, err
	}

	switch start.Status {
	case statusOK:
		if start.KeyFormat != l.accountKey.Format || start.KeyUUID != l.accountKey.UUID {
			return startResponse{}, ErrAccountKeyMismatch
		}
		return start, nil
	case statusDeviceNotRegistered:
		if err = l.registerDevice(ctx); err != nil {
			return startResponse{}, err
		}
		return startResponse{}, login.RestartLogin("device registered")
	case statusDeviceDeleted:
		if err = l.reauthorizeDevice(ctx); err != nil {
			return startResponse{}, err
		}
		return startResponse{}, login.RestartLogin("device reauthorized")
	}

	return startResponse{}, app.Internal("onepassword: failed to start a session, status '"+start.Status+"'", nil).
		WithRequest(l.rest.URL(endpoint), http.StatusOK)
}

func (l *loginFlow) registerDevice(ctx context.Context) error {
	r, err := sendJSON[successResponse](ctx, l.rest, http.MethodPost, "v1/device", l.device())
	if err != nil {
		return err
	}
	if r.Success != 1 {
		return app.Internal("onepassword: failed to register the device", nil)
	}

	l.opts.Logger.Info().Str("device", l.deviceID).Msg("onepassword device registered")
	return nil
}

func (l *loginFlow) reauthorizeDevice(ctx context.Context) error {
	endpoint := "v1/device/" + url.PathEscape(l.deviceID) + "/reauthorize"
	r, err := sendJSON[successResponse](ctx, l.rest, http.MethodPut, endpoint, nil)
	if err != nil {
		return err
	}
	if r.Success != 1 {
		return app.Internal("onepassword: failed to reauthorize the device", nil)
	}

	l.opts.Logger.Info().Str("device", l.deviceID).Msg("onepassword device reauthorized")
	return nil
}

// exchangeSRP runs SRP-6a and returns the session key under the session
// id.
func (l *loginFlow) exchangeSRP(ctx context.Context, rest *adapter.RestClient, start startResponse) (*keychain.Key, error) {
	auth := start.Auth
	if !strings.HasPrefix(auth.Method, srpMethodPrefix) {
		return nil, app.Unsupported("onepassword: authentication method '" + auth.Method + "' is not supported")
	}

	salt, err := utils.DecodeBase64(auth.Salt)
	if err != nil {
		return nil, app.InvalidResponse("onepassword: srp salt", err)
	}

	x, err := deriveTwoSecretKey(auth.Method, auth.Algorithm, salt, auth.Iterations, l.email, l.password, l.accountKey)
	if err != nil {
		return nil, err
	}

	exchange, err := srp.NewExchange(srp.RFC5054Group4096, l.opts.Random)
	if err != nil {
		return nil, err
	}

	reply, err := sendJSON[srpResponse](ctx, rest, http.MethodPost, "v1/auth", srpRequest{
		SessionID: start.SessionID,
		UserA:     exchange.PublicHex(),
	})
	if err != nil {
		return nil, err
	}
	if reply.SessionID != start.SessionID {
		return nil, app.InvalidResponse("onepassword: srp session id does not match", nil)
	}

	key, err := exchange.SessionKey(reply.UserB, x)
	if errors.Is(err, srp.ErrProtocol) {
		return nil, app.InvalidResponse("onepassword: srp", err)
	}
	if err != nil {
		return nil, err
	}

	return &keychain.Key{ID: start.SessionID, Encryption: key}, nil
}

func (l *loginFlow) device() deviceInfo {
	return deviceInfo{
		UUID:          l.deviceID,
		ClientName:    clientName,
		ClientVersion: clientVersion,
		OSName:        runtime.GOOS,
		Name:          l.opts.Device.Name,
		Model:         runtime.GOARCH,
	}
}
