// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protonpass

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var (
	// ErrVaultNotFound is returned by the lookups by id when the server
	// does not know the vault.
	ErrVaultNotFound = errors.New("protonpass: vault not found")
	// ErrItemNotFound is returned by GetItem for an unknown item.
	ErrItemNotFound = errors.New("protonpass: item not found")
	// ErrItemDeleted is returned by GetItem for an item in the trash.
	ErrItemDeleted = errors.New("protonpass: item is deleted")
	// ErrUnsupportedItem is returned by GetItem for anything but a login.
	ErrUnsupportedItem = errors.New("protonpass: item is not a login")
)

// Recoverable conditions the login loop reacts to. They classify as
// internal errors when they escape.
var (
	errTokenExpired            = fmt.Errorf("%w: protonpass: access token expired", app.ErrInternal)
	errMissingLockedScope      = fmt.Errorf("%w: protonpass: missing locked scope", app.ErrInternal)
	errMissingPassScope        = fmt.Errorf("%w: protonpass: missing pass scope", app.ErrInternal)
	errInvalidExtraPassword    = fmt.Errorf("%w: protonpass: invalid extra password", app.ErrInternal)
	errTooManyExtraPasswords   = fmt.Errorf("%w: protonpass: too many invalid extra password attempts", app.ErrInternal)
	errHumanVerificationNeeded = fmt.Errorf("%w: protonpass: captcha verification required", app.ErrInternal)
)

// captchaError carries the human verification challenge of a 9001 reply.
type captchaError struct {
	URL   string
	Token string
	err   error
}

func (e *captchaError) Error() string {
	return e.err.Error()
}

func (e *captchaError) Unwrap() error {
	return e.err
}
