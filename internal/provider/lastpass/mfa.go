// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lastpass

import (
	"context"
	"net/url"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/duo"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
)

const otpAttempts = 3

var otpMethods = map[string]string{
	"googleauthrequired":    "Google Authenticator",
	"microsoftauthrequired": "Microsoft Authenticator",
	"otprequired":           "YubiKey",
}

var oobMethods = map[string]string{
	"lastpassauth":   "LastPass Authenticator",
	"salesforcehash": "Salesforce Authenticator",
}

var otpFailures = map[string]bool{
	"googleauthfailed":    true,
	"microsoftauthfailed": true,
	"otpfailed":           true,
}

func (l *loginFlow) requireUI() error {
	if l.ui == nil {
		return app.Unsupported("lastpass: second factor required but no UI is available")
	}
	return nil
}

// loginWithOTP repeats the login request with a passcode until the server
// accepts one.
func (l *loginFlow) loginWithOTP(ctx context.Context, cause string) (Session, error) {
	if err := l.requireUI(); err != nil {
		return Session{}, err
	}

	var session Session
	prompt := mfa.PasscodePrompt{Factor: mfa.FactorTOTP, Method: otpMethods[cause]}
	passcode, err := mfa.CollectPasscode(ctx, l.ui, prompt, otpAttempts,
		func(ctx context.Context, p mfa.Passcode) (bool, error) {
			r, err := l.request(ctx, url.Values{"otp": {p.Code}})
			if err != nil {
				return false, err
			}
			if r.isOK() {
				session, err = l.session(r)
				return err == nil, err
			}
			if otpFailures[r.errorAttr("cause")] {
				l.opts.Logger.Debug().Msg("lastpass rejected the passcode")
				return false, nil
			}
			return false, mapLoginError(r)
		})
	if err != nil {
		return Session{}, err
	}

	if err = l.trust(ctx, session, passcode.RememberMe); err != nil {
		return Session{}, err
	}
	return session, nil
}

// loginWithOOB handles outofbandrequired: Duo or an approval app.
func (l *loginFlow) loginWithOOB(ctx context.Context, r *loginResponse) (Session, error) {
	if err := l.requireUI(); err != nil {
		return Session{}, err
	}

	var (
		extra      url.Values
		rememberMe bool
		err        error
	)

	kind := r.errorAttr("outofbandtype")
	switch {
	case kind == "duo":
		extra, rememberMe, err = l.approveDuo(ctx, r)
	case oobMethods[kind] != "":
		extra, rememberMe, err = l.approveApp(ctx, kind)
	default:
		return Session{}, app.Unsupported("lastpass: out of band method '" + kind + "' is not supported")
	}
	if err != nil {
		return Session{}, err
	}

	session, err := l.pollOOB(ctx, extra)
	if err != nil {
		return Session{}, err
	}

	if err = l.trust(ctx, session, rememberMe); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (l *loginFlow) approveApp(ctx context.Context, kind string) (url.Values, bool, error) {
	result, err := l.ui.ApproveOutOfBand(ctx, mfa.OutOfBand{Factor: mfa.FactorOutOfBand, Method: oobMethods[kind]})
	if err != nil {
		return nil, false, mfa.MapCancel(err)
	}

	if result.Action == mfa.OOBPasscode {
		return url.Values{"otp": {result.Passcode}}, result.RememberMe, nil
	}
	return url.Values{"outofbandrequest": {"1"}}, result.RememberMe, nil
}

// pollOOB repeats the login request while the server answers with a
// retry id, i.e. the approval is still pending.
func (l *loginFlow) pollOOB(ctx context.Context, extra url.Values) (Session, error) {
	return mfa.Poll(ctx, l.opts.Poll, func(ctx context.Context, attempt int) (Session, bool, error) {
		r, err := l.request(ctx, extra)
		if err != nil {
			return Session{}, false, err
		}
		if r.isOK() {
			s, err := l.session(r)
			return s, err == nil, err
		}

		retryID := r.errorAttr("retryid")
		if r.errorAttr("cause") == "outofbandrequired" && retryID != "" {
			l.opts.Logger.Debug().Int("attempt", attempt).Msg("lastpass out of band approval pending")
			extra.Set("outofbandretry", "1")
			extra.Set("outofbandretryid", retryID)
			return Session{}, false, nil
		}

		return Session{}, false, mapLoginError(r)
	})
}

// approveDuo runs Duo and turns its result into login parameters. The
// web SDK (V4) is used when the server sends an authentication URL.
func (l *loginFlow) approveDuo(ctx context.Context, r *loginResponse) (url.Values, bool, error) {
	if r.errorAttr("duo_authentication_url") != "" {
		return l.approveDuoV4(ctx, r)
	}
	return l.approveDuoV1(ctx, r)
}

func (l *loginFlow) approveDuoV1(ctx context.Context, r *loginResponse) (url.Values, bool, error) {
	params, err := requireParams(r, "duo_host", "duo_signature", "duo_bytes")
	if err != nil {
		return nil, false, err
	}

	result, err := duo.Authenticate(ctx, params["duo_host"], params["duo_signature"], l.ui, l.opts.Transport, l.opts.Poll)
	if err != nil {
		return nil, false, err
	}

	resp, err := l.rest.PostForm(ctx, "duo.php", url.Values{
		"username":     {l.username},
		"akey":         {params["duo_bytes"]},
		"sig_response": {result.Code},
	}, nil)
	if err != nil {
		return nil, false, err
	}
	code, err := duoPasscode(resp)
	if err != nil {
		return nil, false, err
	}

	return url.Values{"otp": {"checkduo" + code}}, result.RememberMe, nil
}

type duoExchangeRequest struct {
	UserName     string `json:"userName"`
	SessionToken string `json:"sessionToken"`
	PrivateToken string `json:"privateToken"`
	Code         string `json:"code"`
}

type duoExchangeResponse struct {
	Status       string `json:"status"`
	OneTimeToken string `json:"oneTimeToken"`
}

func (l *loginFlow) approveDuoV4(ctx context.Context, r *loginResponse) (url.Values, bool, error) {
	params, err := requireParams(r, "duo_authentication_url", "duo_session_token", "duo_private_token")
	if err != nil {
		return nil, false, err
	}

	result, err := duo.AuthenticateV4(ctx, params["duo_authentication_url"], l.ui, l.opts.Transport, l.opts.Poll)
	if err != nil {
		return nil, false, err
	}

	exchange, err := adapter.PostJSON[duoExchangeResponse](ctx, l.rest, "lmiapi/duo", duoExchangeRequest{
		UserName:     l.username,
		SessionToken: params["duo_session_token"],
		PrivateToken: params["duo_private_token"],
		Code:         result.Code,
	}, nil)
	if err != nil {
		return nil, false, err
	}
	if exchange.Status != "allowed" || exchange.OneTimeToken == "" {
		return nil, false, app.BadMultiFactor("lastpass: duo authentication was not allowed")
	}

	return url.Values{
		"outofbandrequest": {"1"},
		"otp":              {exchange.OneTimeToken},
	}, result.RememberMe, nil
}

func requireParams(r *loginResponse, names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		v := r.errorAttr(name)
		if v == "" {
			return nil, missingParameter(name)
		}
		out[name] = v
	}
	return out, nil
}
