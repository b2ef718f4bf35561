// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package opvault

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var (
	ErrFileNotFound  = fmt.Errorf("opvault: %w: file doesn't exist", app.ErrInternal)
	ErrInvalidFormat = fmt.Errorf("opvault: %w: unexpected file format", app.ErrInvalidResponse)

	ErrOpdataHeader = errors.New("opdata01: invalid header")
	ErrOpdataSize   = errors.New("opdata01: invalid size")
	ErrItemKeySize  = errors.New("item key has invalid size")
	ErrItemTag      = errors.New("item tag doesn't match")
	ErrItemKeyTag   = errors.New("item key tag doesn't match")
)
