// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protonpass

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
)

// Server error codes.
const (
	codeUnauthorized          = 401
	codeAccessTokenExpired    = 10013
	codeHumanVerification     = 9001
	codeBadCredentials        = 8002
	codeMissingLockedScope    = 9101
	codeMissingPassScope      = 9108
	codeInvalidExtraPassword  = 2011
	codeTooManyExtraPasswords = 2026
	codeInvalidID             = 2061
)

const (
	scopeLocked = "locked"
	scopePass   = "pass"

	// humanVerificationCaptcha is both the method name in a 9001 reply and
	// the token type sent back with the solved token.
	humanVerificationCaptcha = "captcha"
)

type serverError struct {
	Code    int          `json:"Code"`
	Error   string       `json:"Error"`
	Details errorDetails `json:"Details"`
}

type errorDetails struct {
	HumanVerificationMethods []string `json:"HumanVerificationMethods"`
	HumanVerificationToken   string   `json:"HumanVerificationToken"`
	WebURL                   string   `json:"WebUrl"`
	MissingScopes            []string `json:"MissingScopes"`
}

func parseServerError(resp *adapter.Response) (serverError, bool) {
	var body serverError
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Code == 0 {
		return serverError{}, false
	}
	return body, true
}

// isInvalidID reports the "no such share or item" reply.
func isInvalidID(resp *adapter.Response) bool {
	body, ok := parseServerError(resp)
	return ok && body.Code == codeInvalidID
}

// mapResponseError classifies a failed response. Conditions the login
// loop recovers from keep their own sentinel as the kind.
func mapResponseError(resp *adapter.Response) error {
	body, ok := parseServerError(resp)
	if !ok {
		if resp.StatusCode == codeUnauthorized {
			return app.New(errTokenExpired, "", nil).WithRequest(resp.RequestURL, resp.StatusCode)
		}
		if err := adapter.MapHTTPError(resp); err != nil {
			return err
		}
		return app.InvalidResponse("protonpass: unexpected response", nil).WithRequest(resp.RequestURL, resp.StatusCode)
	}

	wrap := func(kind error, message string) *app.Error {
		return app.New(kind, message, nil).
			WithRequest(resp.RequestURL, resp.StatusCode).
			WithServer(body.Code, body.Error)
	}

	// locked is checked before pass, both may be missing at once
	switch {
	case body.Code == codeUnauthorized || body.Code == codeAccessTokenExpired:
		return wrap(errTokenExpired, "")
	case body.Code == codeHumanVerification && slices.Contains(body.Details.HumanVerificationMethods, humanVerificationCaptcha):
		if body.Details.WebURL == "" || body.Details.HumanVerificationToken == "" {
			return wrap(app.ErrInvalidResponse, "protonpass: captcha challenge without url or token")
		}
		return &captchaError{
			URL:   body.Details.WebURL,
			Token: body.Details.HumanVerificationToken,
			err:   wrap(errHumanVerificationNeeded, ""),
		}
	case body.Code == codeBadCredentials:
		return wrap(app.ErrBadCredentials, "protonpass: invalid credentials")
	case body.Code == codeMissingLockedScope && slices.Contains(body.Details.MissingScopes, scopeLocked):
		return wrap(errMissingLockedScope, "")
	case body.Code == codeMissingPassScope && slices.Contains(body.Details.MissingScopes, scopePass):
		return wrap(errMissingPassScope, "")
	case body.Code == codeInvalidExtraPassword:
		return wrap(errInvalidExtraPassword, "")
	case body.Code == codeTooManyExtraPasswords:
		return wrap(errTooManyExtraPasswords, "")
	}

	return wrap(app.ErrInternal, fmt.Sprintf("protonpass: server error %d: %s", body.Code, body.Error))
}

// captchaChallenge extracts the human verification challenge from err.
func captchaChallenge(err error) (*captchaError, bool) {
	var c *captchaError
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}
