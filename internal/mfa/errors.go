// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mfa

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var (
	// ErrCanceled is returned by UI implementations when the user declines
	// to answer. Negotiation maps it to app.ErrCanceledMultiFactor.
	ErrCanceled = errors.New("mfa: canceled by user")

	// ErrPollLimit is returned when the status never became terminal
	// within the attempt ceiling.
	ErrPollLimit = fmt.Errorf("%w: mfa: poll attempt limit reached", app.ErrInvalidResponse)

	// ErrRepeatedCondition is returned by Guard when a recoverable
	// condition shows up a second time in one login attempt.
	ErrRepeatedCondition = fmt.Errorf("%w: mfa: recoverable condition repeated", app.ErrInternal)

	// ErrNoSupportedFactor is returned when none of the offered factors is
	// in the priority table.
	ErrNoSupportedFactor = fmt.Errorf("%w: mfa: no supported second factor", app.ErrUnsupportedFeature)

	// ErrRememberTokenRejected is returned when the server refused a stored
	// remember-me token. The token is already cleared when this is seen and
	// the whole login should be started again.
	ErrRememberTokenRejected = errors.New("mfa: remember-me token rejected")
)

// MapCancel turns a UI cancellation into app.ErrCanceledMultiFactor and
// leaves every other error alone.
func MapCancel(err error) error {
	if errors.Is(err, ErrCanceled) {
		return app.New(app.ErrCanceledMultiFactor, "canceled by user", err)
	}
	return err
}
