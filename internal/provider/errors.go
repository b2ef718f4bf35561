// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package provider

import (
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var ErrNoTransport = fmt.Errorf("%w: transport is required", app.ErrInternal)
