// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"context"
	"errors"
	"net/http"
	"runtime"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/duo"
	"github.com/MKhiriev/go-vault-access/internal/login"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
)

const (
	// RememberMeKey is the storage key of the remember-me token.
	RememberMeKey = "remember-me-token"

	totpAttempts      = 3
	webAuthnRelyingID = "1password.com"
)

func (m *mfaInfo) offered() []mfa.Factor {
	var factors []mfa.Factor
	if m.TOTP.Enabled {
		factors = append(factors, mfa.FactorTOTP)
	}
	if m.WebAuthn.Enabled {
		factors = append(factors, mfa.FactorWebAuthn)
	}
	if m.Duo.Enabled {
		factors = append(factors, mfa.FactorDuo)
	}
	return factors
}

// secondFactor passes the factor the server asks for. A stored
// remember-me token goes first; when it is rejected the login restarts
// without it.
func (l *loginFlow) secondFactor(ctx context.Context, s *session, info *mfaInfo) error {
	used, err := l.remember.Try(ctx, info.RememberMe.Enabled, func(ctx context.Context, token string) (bool, error) {
		hash, err := rememberMeHash(token, s.id)
		if err != nil {
			return false, nil
		}
		_, err = l.submitFactor(ctx, s, "dsecret", map[string]string{"dshmac": hash})
		if errors.Is(err, app.ErrBadCredentials) {
			return false, nil
		}
		return err == nil, err
	})
	if errors.Is(err, mfa.ErrRememberTokenRejected) {
		return login.RestartLogin("remember-me token rejected")
	}
	if err != nil || used {
		return err
	}

	offered := info.offered()
	if len(offered) == 0 {
		return app.Internal("onepassword: second factor required but none is enabled", nil)
	}
	if l.ui == nil {
		return app.Unsupported("onepassword: second factor required but no UI is available")
	}

	factor, err := mfa.OnePasswordPriority(runtime.GOOS).Select(offered)
	if err != nil {
		return err
	}

	l.opts.Logger.Info().Str("factor", string(factor)).Msg("onepassword second factor required")

	switch factor {
	case mfa.FactorWebAuthn:
		return l.loginWithWebAuthn(ctx, s, info.WebAuthn)
	case mfa.FactorDuo:
		return l.loginWithDuo(ctx, s, info.Duo)
	default:
		return l.loginWithTOTP(ctx, s)
	}
}

func (l *loginFlow) loginWithTOTP(ctx context.Context, s *session) error {
	var token string
	passcode, err := mfa.CollectPasscode(ctx, l.ui,
		mfa.PasscodePrompt{Factor: mfa.FactorTOTP, Method: "Authenticator app"},
		totpAttempts,
		func(ctx context.Context, p mfa.Passcode) (bool, error) {
			r, err := l.submitFactor(ctx, s, "totp", map[string]string{"code": p.Code})
			if errors.Is(err, app.ErrBadCredentials) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			token = r.RememberMeToken
			return true, nil
		})
	if err != nil {
		return err
	}

	return l.rememberToken(ctx, passcode.RememberMe, token)
}

func (l *loginFlow) loginWithWebAuthn(ctx context.Context, s *session, w webAuthn) error {
	if len(w.KeyHandles) != 1 {
		return app.Unsupported("onepassword: exactly one registered security key is supported")
	}

	assertion, err := l.ui.Assert(ctx, mfa.HardwareAssertion{
		Challenge:  w.Challenge,
		RelyingID:  webAuthnRelyingID,
		KeyHandles: w.KeyHandles,
	})
	if err != nil {
		return mfa.MapCancel(err)
	}

	_, err = l.submitFactor(ctx, s, "webAuthn", map[string]string{
		"keyHandle":  assertion.KeyHandle,
		"signature":  assertion.Signature,
		"authData":   assertion.AuthenticatorData,
		"clientData": assertion.ClientData,
	})
	return secondFactorError(err)
}

// loginWithDuo runs the web SDK flow when the server sends an auth URL
// and the frame flow otherwise.
func (l *loginFlow) loginWithDuo(ctx context.Context, s *session, d duoInfo) error {
	var (
		result duo.Result
		key    string
		params map[string]string
		err    error
	)

	if d.AuthURL != "" {
		result, err = duo.AuthenticateV4(ctx, d.AuthURL, l.ui, l.opts.Transport, l.opts.Poll)
		key, params = "duov4", map[string]string{"code": result.Code}
	} else {
		if d.Host == "" || d.SigRequest == "" {
			return app.InvalidResponse("onepassword: duo host or signature is missing", nil)
		}
		result, err = duo.Authenticate(ctx, d.Host, d.SigRequest, l.ui, l.opts.Transport, l.opts.Poll)
		key, params = "duo", map[string]string{"sigResponse": result.Code}
	}
	if err != nil {
		return err
	}

	r, err := l.submitFactor(ctx, s, key, params)
	if err != nil {
		return secondFactorError(err)
	}

	return l.rememberToken(ctx, result.RememberMe, r.RememberMeToken)
}

func (l *loginFlow) submitFactor(ctx context.Context, s *session, key string, params map[string]string) (mfaResponse, error) {
	return sendEncrypted[mfaResponse](ctx, s, http.MethodPost, "v1/auth/mfa", map[string]any{
		"sessionID": s.id,
		"client":    clientID,
		key:         params,
	})
}

func (l *loginFlow) rememberToken(ctx context.Context, rememberMe bool, token string) error {
	if !rememberMe {
		return nil
	}
	return l.remember.Save(ctx, token)
}
