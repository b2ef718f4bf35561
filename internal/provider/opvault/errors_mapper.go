// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package opvault

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
)

// mapFileError turns read errors of the vault files into the error
// taxonomy.
func mapFileError(filename string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrFileNotFound, filename)
	}
	return app.Internal(fmt.Sprintf("opvault: read %q", filename), err)
}

// mapKeyError reports a wrong password for failures at the root step.
// Anything below the root means the vault itself is damaged.
func mapKeyError(err error) error {
	var step *keychain.StepError
	if errors.As(err, &step) && step.Root {
		return app.New(app.ErrBadCredentials, "most likely the master password is incorrect", err)
	}
	return err
}
