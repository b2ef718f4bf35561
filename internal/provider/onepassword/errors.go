// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var (
	ErrMalformedAccountKey = fmt.Errorf("onepassword: %w: account key is malformed", app.ErrBadCredentials)
	ErrAccountKeyMismatch  = fmt.Errorf("onepassword: %w: account key is incorrect", app.ErrBadCredentials)

	errWrongKeyKind = errors.New("key cannot open this encryption")
	errBadKeySize   = errors.New("symmetric key must be 32 bytes")
)
