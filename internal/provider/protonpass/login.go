// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protonpass

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/provider"
	"github.com/MKhiriev/go-vault-access/internal/srp"
	"github.com/MKhiriev/go-vault-access/internal/utils"
)

// Storage keys.
const (
	SessionIDKey                  = "session-id"
	AccessTokenKey                = "access-token"
	RefreshTokenKey               = "refresh-token"
	HumanVerificationTokenTypeKey = "human-verification-token-type"
	HumanVerificationTokenKey     = "human-verification-token"
)

const (
	uidHeader                   = "X-Pm-Uid"
	humanVerificationTypeHeader = "X-Pm-Human-Verification-Token-Type"
	humanVerificationHeader     = "X-Pm-Human-Verification-Token"

	intent          = "Proton"
	captchaAttempts = 2
)

// loginFlow drives one login. The rest client is replaced every time the
// session headers change.
type loginFlow struct {
	opts     provider.Options
	rest     *adapter.RestClient
	ui       UI
	username string
	password string

	uid          string
	refreshToken string
}

// run reuses a stored session when there is one and recovers from an
// expired token, a missing locked scope and a missing pass scope once
// each.
func (f *loginFlow) run(ctx context.Context) (*session, error) {
	accessToken, err := f.restore(ctx)
	if err != nil {
		return nil, err
	}

	if f.uid == "" || accessToken == "" || f.refreshToken == "" {
		f.opts.Logger.Debug().Msg("protonpass has no stored session, full login")
		if err = f.fullLogin(ctx); err != nil {
			return nil, err
		}
	} else {
		f.authorize(f.uid, accessToken)
	}

	var guard mfa.Guard
	for {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		s, uerr := f.unlock(ctx)
		if uerr == nil {
			return s, nil
		}

		condition, repair := f.recovery(uerr)
		if repair == nil {
			return nil, uerr
		}
		if gerr := guard.Observe(condition); gerr != nil {
			return nil, app.Internal("protonpass: failed to unlock the account", gerr)
		}

		f.opts.Logger.Debug().Str("condition", condition).Msg("protonpass login recovering")
		if err = repair(ctx); err != nil {
			return nil, err
		}
	}
}

// recovery returns the step that repairs the session after err, nil when
// err is final.
func (f *loginFlow) recovery(err error) (string, func(context.Context) error) {
	switch {
	case errors.Is(err, errTokenExpired):
		return "token expired", f.refreshOrLogin
	case errors.Is(err, errMissingLockedScope):
		// the session exists, only the password proof is missing
		return "missing locked scope", f.srpLogin
	case errors.Is(err, errMissingPassScope):
		return "missing pass scope", f.extraPassword
	}
	return "", nil
}

// restore loads the stored session and human verification token.
func (f *loginFlow) restore(ctx context.Context) (string, error) {
	values := make(map[string]string, 5)
	for _, key := range []string{
		SessionIDKey,
		AccessTokenKey,
		RefreshTokenKey,
		HumanVerificationTokenTypeKey,
		HumanVerificationTokenKey,
	} {
		v, err := f.opts.Storage.LoadString(ctx, key)
		if err != nil {
			return "", fmt.Errorf("load %s: %w", key, err)
		}
		values[key] = v
	}

	if t, token := values[HumanVerificationTokenTypeKey], values[HumanVerificationTokenKey]; t != "" && token != "" {
		f.rest = f.rest.WithHeaders(map[string]string{
			humanVerificationTypeHeader: t,
			humanVerificationHeader:     token,
		})
	}

	f.uid, f.refreshToken = values[SessionIDKey], values[RefreshTokenKey]
	return values[AccessTokenKey], nil
}

func (f *loginFlow) authorize(uid, accessToken string) {
	f.rest = f.rest.WithHeaders(map[string]string{
		uidHeader:       uid,
		"Authorization": "Bearer " + accessToken,
	})
}

// storeSession remembers the tokens here and in the storage. Empty tokens
// are removed.
func (f *loginFlow) storeSession(ctx context.Context, uid, accessToken, refreshToken string) error {
	f.uid, f.refreshToken = uid, refreshToken
	return f.store(ctx, map[string]string{
		SessionIDKey:    uid,
		AccessTokenKey:  accessToken,
		RefreshTokenKey: refreshToken,
	})
}

func (f *loginFlow) storeHumanVerification(ctx context.Context, tokenType, token string) error {
	return f.store(ctx, map[string]string{
		HumanVerificationTokenTypeKey: tokenType,
		HumanVerificationTokenKey:     token,
	})
}

func (f *loginFlow) store(ctx context.Context, values map[string]string) error {
	for key, v := range values {
		var value *string
		if v != "" {
			value = &v
		}
		if err := f.opts.Storage.StoreString(ctx, key, value); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return nil
}

// fullLogin starts an anonymous session and authenticates it.
func (f *loginFlow) fullLogin(ctx context.Context) error {
	s, err := postJSON[authSession](ctx, f.rest, "auth/v4/sessions", struct{}{})
	if err != nil {
		return err
	}

	// the anonymous tokens are only good for auth/v4/info and auth/v4
	if err = f.storeSession(ctx, s.UID, "", ""); err != nil {
		return err
	}
	f.authorize(s.UID, s.AccessToken)

	return f.srpLogin(ctx)
}

func (f *loginFlow) refreshOrLogin(ctx context.Context) error {
	if f.refreshToken != "" {
		ok, err := f.refresh(ctx)
		if err != nil || ok {
			return err
		}
	}

	f.opts.Logger.Debug().Msg("protonpass refresh token expired, full login")
	return f.fullLogin(ctx)
}

// refresh trades the refresh token for new tokens. false means the refresh
// token expired as well.
func (f *loginFlow) refresh(ctx context.Context) (bool, error) {
	s, err := postJSON[authSession](ctx, f.rest, "auth/v4/refresh", refreshRequest{
		UID:          f.uid,
		RefreshToken: f.refreshToken,
		ResponseType: "token",
		GrantType:    "refresh_token",
		RedirectURI:  "http://protonmail.ch",
	})
	if errors.Is(err, errTokenExpired) {
		return false, f.storeSession(ctx, f.uid, "", "")
	}
	if err != nil {
		return false, err
	}

	if err = f.storeSession(ctx, s.UID, s.AccessToken, s.RefreshToken); err != nil {
		return false, err
	}
	f.authorize(s.UID, s.AccessToken)
	return true, nil
}

// srpLogin proves the password on the current session, solving a captcha
// when the server asks for one.
func (f *loginFlow) srpLogin(ctx context.Context) error {
	info, err := postJSON[authInfo](ctx, f.rest, "auth/v4/info", authInfoRequest{Username: f.username, Intent: intent})
	if err != nil {
		return err
	}

	challenge, err := parseChallenge(info.Version, info.Modulus, info.ServerEphemeral, info.Salt, info.SRPSession)
	if err != nil {
		return err
	}

	proofs, err := f.prove(challenge, f.password)
	if err != nil {
		return err
	}

	for range captchaAttempts {
		auth, err := postJSON[authResponse](ctx, f.rest, "auth/v4", authRequest{
			Username:        f.username,
			ClientEphemeral: utils.EncodeBase64(proofs.ClientEphemeral),
			ClientProof:     utils.EncodeBase64(proofs.ClientProof),
			SRPSession:      challenge.SessionID,
		})
		if c, ok := captchaChallenge(err); ok {
			if err = f.solveCaptcha(ctx, c); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		serverProof, err := utils.DecodeBase64(auth.ServerProof)
		if err != nil || !proofs.VerifyServerProof(serverProof) {
			return app.InvalidResponse("protonpass: server proof does not match", err)
		}

		f.authorize(auth.UID, auth.AccessToken)

		if auth.TwoFactor.Enabled != 0 {
			if err = f.secondFactor(ctx, auth.TwoFactor.Enabled); err != nil {
				return err
			}
		}

		// these tokens carry the full scope and are worth keeping
		return f.storeSession(ctx, auth.UID, auth.AccessToken, auth.RefreshToken)
	}

	return app.Internal("protonpass: failed to log in", nil)
}

func (f *loginFlow) solveCaptcha(ctx context.Context, c *captchaError) error {
	if err := f.storeHumanVerification(ctx, "", ""); err != nil {
		return err
	}
	if f.ui == nil {
		return app.Unsupported("protonpass: captcha verification requires a UI")
	}

	f.opts.Logger.Debug().Msg("protonpass asks for captcha verification")
	token, err := f.ui.SolveCaptcha(ctx, c.URL, c.Token)
	if err != nil {
		return mfa.MapCancel(err)
	}
	if token == "" {
		return app.Internal("protonpass: captcha verification failed", nil)
	}

	if err = f.storeHumanVerification(ctx, humanVerificationCaptcha, token); err != nil {
		return err
	}
	f.rest = f.rest.WithHeaders(map[string]string{
		humanVerificationTypeHeader: humanVerificationCaptcha,
		humanVerificationHeader:     token,
	})
	return nil
}

// unlock derives the key passphrase and unlocks the primary user key.
// Both requests fail first when the session lacks a scope.
func (f *loginFlow) unlock(ctx context.Context) (*session, error) {
	salts, err := getJSON[saltsResponse](ctx, f.rest, "core/v4/keys/salts")
	if err != nil {
		return nil, err
	}

	user, err := getJSON[userResponse](ctx, f.rest, "core/v4/users")
	if err != nil {
		return nil, err
	}

	key, err := primaryKey(user.User.Keys)
	if err != nil {
		return nil, err
	}

	passphrase, err := keyPassphrase(f.password, key.ID, salts.KeySalts)
	if err != nil {
		return nil, err
	}

	keyring, err := unlockKey(key.PrivateKey, passphrase)
	if err != nil {
		return nil, err
	}

	return &session{
		rest:    f.rest,
		uid:     f.uid,
		keyID:   key.ID,
		keyring: keyring,
	}, nil
}

func primaryKey(keys []userKey) (userKey, error) {
	if len(keys) == 0 {
		return userKey{}, app.Internal("protonpass: expected at least one user key", nil)
	}
	for _, k := range keys {
		if k.Primary == 1 {
			return k, nil
		}
	}
	return userKey{}, app.Internal("protonpass: expected a primary user key", nil)
}

// keyPassphrase is bcrypt(password, salt) without the prefix and the salt.
// Older accounts have no salt and use the password itself.
func keyPassphrase(password, keyID string, salts []keySalt) (string, error) {
	var salt []byte
	for _, s := range salts {
		if s.ID != keyID || s.KeySalt == nil {
			continue
		}
		var err error
		if salt, err = utils.DecodeBase64(*s.KeySalt); err != nil {
			return "", app.InvalidResponse("protonpass: key salt", err)
		}
		break
	}

	passphrase, err := srp.BcryptPassphrase(password, salt)
	if err != nil {
		return "", app.Internal("protonpass: derive key passphrase", err)
	}
	return passphrase, nil
}

// srpChallenge is the decoded SRP data of auth/v4/info and of the extra
// password info.
type srpChallenge struct {
	Version         srp.Version
	Modulus         []byte
	ServerEphemeral []byte
	Salt            []byte
	SessionID       string
}

func parseChallenge(version int, signedModulus, serverEphemeral, salt, sessionID string) (srpChallenge, error) {
	modulus, err := srp.ParseModulus(signedModulus)
	if err != nil {
		return srpChallenge{}, app.InvalidResponse("protonpass: srp modulus", err)
	}

	ephemeral, err := utils.DecodeBase64(serverEphemeral)
	if err != nil {
		return srpChallenge{}, app.InvalidResponse("protonpass: srp server ephemeral", err)
	}

	s, err := utils.DecodeBase64(salt)
	if err != nil {
		return srpChallenge{}, app.InvalidResponse("protonpass: srp salt", err)
	}

	return srpChallenge{
		Version:         srp.Version(version),
		Modulus:         modulus,
		ServerEphemeral: ephemeral,
		Salt:            s,
		SessionID:       sessionID,
	}, nil
}

func (f *loginFlow) prove(c srpChallenge, password string) (*srp.Proofs, error) {
	proofs, err := srp.GenerateProofs(c.Version, password, f.username, c.Salt, c.ServerEphemeral, c.Modulus, f.opts.Random)
	switch {
	case errors.Is(err, srp.ErrUnsupportedVersion):
		return nil, fmt.Errorf("protonpass: %w", err)
	case errors.Is(err, srp.ErrProtocol), errors.Is(err, srp.ErrInvalidModulus):
		return nil, app.InvalidResponse("protonpass: srp", err)
	case err != nil:
		return nil, app.Internal("protonpass: srp", err)
	}
	return proofs, nil
}
