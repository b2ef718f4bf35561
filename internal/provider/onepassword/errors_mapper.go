// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
)

// codeAuthenticationFailed is what the server answers to a wrong SRP
// proof, a wrong second factor and an expired session alike.
const codeAuthenticationFailed = 102

type serverError struct {
	Code    int    `json:"errorCode"`
	Message string `json:"errorMessage"`
	Reason  string `json:"reason"`
}

// mapResponseError classifies a failed response. The body is either
// {errorCode, errorMessage}, {reason} or something else entirely.
func mapResponseError(resp *adapter.Response) error {
	var body serverError
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		switch {
		case body.Code == codeAuthenticationFailed:
			return app.BadCredentials("onepassword: username, password or account key is incorrect").
				WithRequest(resp.RequestURL, resp.StatusCode).
				WithServer(body.Code, body.Message)
		case body.Code != 0:
			return app.Internal(fmt.Sprintf("onepassword: server error %d: %s", body.Code, body.Message), nil).
				WithRequest(resp.RequestURL, resp.StatusCode).
				WithServer(body.Code, body.Message)
		case body.Reason != "":
			return app.Internal("onepassword: "+body.Reason, nil).
				WithRequest(resp.RequestURL, resp.StatusCode).
				WithServer(0, body.Reason)
		}
	}

	if err := adapter.MapHTTPError(resp); err != nil {
		return err
	}
	return app.InvalidResponse("onepassword: unexpected response", nil).WithRequest(resp.RequestURL, resp.StatusCode)
}

// secondFactorError turns the server's generic authentication failure
// into a rejected second factor.
func secondFactorError(err error) error {
	if errors.Is(err, app.ErrBadCredentials) {
		return app.New(app.ErrBadMultiFactor, "onepassword: second factor was rejected", err)
	}
	return err
}

// mapKeyError reports a master keyset that does not open as bad
// credentials. Either the password or the account key is wrong.
func mapKeyError(err error) error {
	var step *keychain.StepError
	if errors.As(err, &step) && step.Root {
		return app.New(app.ErrBadCredentials, "onepassword: master keyset does not decrypt", err)
	}
	return err
}
