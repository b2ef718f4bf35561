// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var (
	// ErrSkip is returned by a decryptor for an item that turned out to be
	// of an unsupported kind only after decryption. The item is dropped
	// silently.
	ErrSkip = errors.New("vault: item skipped")

	ErrMarkerRepeated = fmt.Errorf("%w: continuation marker repeated", app.ErrInvalidResponse)
	ErrFolderCycle    = fmt.Errorf("%w: folder tree has a cycle", app.ErrVaultCorrupted)
	ErrFolderExists   = fmt.Errorf("%w: duplicate folder id", app.ErrVaultCorrupted)
)

// ItemError reports one item that could not be turned into an account.
// It unwraps to app.ErrVaultCorrupted and to the cause.
type ItemError struct {
	ItemID string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("vault: item %q is corrupted: %v", e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() []error {
	return []error{app.ErrVaultCorrupted, e.Err}
}

// JoinItemErrors folds failures into one error, nil when there are none.
func JoinItemErrors(failures []*ItemError) error {
	if len(failures) == 0 {
		return nil
	}

	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
