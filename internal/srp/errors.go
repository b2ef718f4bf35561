// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package srp

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var (
	// ErrProtocol is returned when the server sends values that would make
	// the exchange insecure, e.g. an ephemeral that is zero modulo N.
	ErrProtocol = errors.New("srp: protocol violation")

	// ErrUnsupportedVersion wraps app.ErrUnsupportedFeature for password
	// hashing versions this package does not implement.
	ErrUnsupportedVersion = fmt.Errorf("srp: %w: auth version", app.ErrUnsupportedFeature)

	// ErrInvalidModulus is returned for a modulus that is not a clear-signed
	// base64 encoded 2048-bit number.
	ErrInvalidModulus = errors.New("srp: invalid modulus")
)
