// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lastpass

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var (
	ErrBlobTruncated   = fmt.Errorf("lastpass: %w: blob is truncated or corrupted", app.ErrInvalidResponse)
	ErrTooManyReplays  = fmt.Errorf("lastpass: %w: too many login redirects", app.ErrInvalidResponse)
	ErrInvalidXML      = fmt.Errorf("lastpass: %w: failed to parse XML", app.ErrInvalidResponse)
	ErrAccountFederate = fmt.Errorf("lastpass: %w: federated login", app.ErrUnsupportedFeature)

	errMalformedPrivateKey = errors.New("private key is malformed")
)

func missingParameter(name string) error {
	return app.Newf(app.ErrInvalidResponse, "lastpass: '%s' parameter not found", name)
}
