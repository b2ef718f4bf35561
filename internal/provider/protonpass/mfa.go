// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protonpass

import (
	"context"
	"errors"
	"net/url"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/utils"
)

// Bits of the 2FA.Enabled field.
const (
	mfaTOTP  = 1
	mfaFIDO2 = 2
)

const (
	totpAttempts          = 3
	extraPasswordAttempts = 3
)

func offeredFactors(enabled int) []mfa.Factor {
	var offered []mfa.Factor
	if enabled&mfaTOTP != 0 {
		offered = append(offered, mfa.FactorTOTP)
	}
	if enabled&mfaFIDO2 != 0 {
		offered = append(offered, mfa.FactorFIDO2)
	}
	return offered
}

func (f *loginFlow) secondFactor(ctx context.Context, enabled int) error {
	factor, err := mfa.ProtonPassPriority().Select(offeredFactors(enabled))
	if err != nil {
		return app.Newf(app.ErrInternal, "protonpass: unknown second factor %d", enabled)
	}

	f.opts.Logger.Debug().Str("factor", string(factor)).Msg("protonpass second factor required")

	switch factor {
	case mfa.FactorTOTP:
		return f.loginWithTOTP(ctx)
	default:
		return app.Unsupported("protonpass: FIDO2 second factor is not supported")
	}
}

func (f *loginFlow) loginWithTOTP(ctx context.Context) error {
	if f.ui == nil {
		return app.Unsupported("protonpass: second factor requires a UI")
	}

	prompt := mfa.PasscodePrompt{Factor: mfa.FactorTOTP, Method: "Google Authenticator"}
	_, err := mfa.CollectPasscode(ctx, f.ui, prompt, totpAttempts,
		func(ctx context.Context, p mfa.Passcode) (bool, error) {
			_, err := postJSON[struct{}](ctx, f.rest, "auth/v4/2fa", twoFactorRequest{TwoFactorCode: p.Code})
			if errors.Is(err, app.ErrBadCredentials) {
				return false, nil
			}
			return err == nil, err
		})
	return err
}

// extraPassword unlocks the pass scope with a second password proven by
// its own SRP round.
func (f *loginFlow) extraPassword(ctx context.Context) error {
	if f.ui == nil {
		return app.Unsupported("protonpass: extra password requires a UI")
	}

	f.opts.Logger.Debug().Str("challenge", mfa.KindExtraPassword.String()).Msg("protonpass extra password required")

	return mfa.CollectExtraPassword(ctx, f.ui, extraPasswordAttempts,
		func(ctx context.Context, password string) (bool, error) {
			info, err := getJSON[extraAuthInfo](ctx, f.rest, extraPasswordInfoEndpoint(f.username))
			if err != nil {
				return false, err
			}

			d := info.SRPData
			challenge, err := parseChallenge(d.Version, d.Modulus, d.ServerEphemeral, d.Salt, d.SessionID)
			if err != nil {
				return false, err
			}

			proofs, err := f.prove(challenge, password)
			if err != nil {
				return false, err
			}

			_, err = postJSON[struct{}](ctx, f.rest, "pass/v1/user/srp/auth", extraAuthRequest{
				ClientEphemeral: utils.EncodeBase64(proofs.ClientEphemeral),
				ClientProof:     utils.EncodeBase64(proofs.ClientProof),
				SessionID:       challenge.SessionID,
			})
			switch {
			case err == nil:
				return true, nil
			case errors.Is(err, errInvalidExtraPassword):
				return false, nil
			case errors.Is(err, errTooManyExtraPasswords):
				return false, app.New(app.ErrBadMultiFactor, "protonpass: too many failed extra password attempts", err)
			}
			return false, err
		})
}

func extraPasswordInfoEndpoint(username string) string {
	return "pass/v1/user/srp/info?" + url.Values{"Intent": {intent}, "Username": {username}}.Encode()
}
