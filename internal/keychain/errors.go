// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keychain

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var (
	// ErrKeyNotFound is returned when a lookup names a key that was never
	// resolved.
	ErrKeyNotFound = fmt.Errorf("keychain: %w: key not found", app.ErrInternal)

	// ErrKeyConflict is returned when a key id is inserted twice with
	// different material.
	ErrKeyConflict = fmt.Errorf("keychain: %w: conflicting key material", app.ErrInternal)

	// ErrInvalidKDFParams is returned by DeriveRoot for unusable parameters.
	ErrInvalidKDFParams = errors.New("keychain: invalid kdf parameters")
)

// StepError reports which decryption step of the walk failed. Root is set
// when a record encrypted directly by the root key fails before any other
// such record opened: the root itself is wrong, which in practice means a
// wrong password.
type StepError struct {
	KeyID       string
	EncryptedBy string
	Root        bool
	Err         error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("keychain: decrypt key %q (encrypted by %q): %v", e.KeyID, e.EncryptedBy, e.Err)
}

// Kind maps the failing step onto the error taxonomy.
func (e *StepError) Kind() error {
	if e.Root {
		return app.ErrBadCredentials
	}
	return app.ErrVaultCorrupted
}

func (e *StepError) Unwrap() []error {
	return []error{e.Kind(), e.Err}
}
