// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid transport settings
	// (for example, a negative request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates an unknown storage driver or a
	// driver without its DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates an unknown provider or a provider
	// missing its required settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidMFAConfigs indicates polling settings outside their bounds.
	ErrInvalidMFAConfigs = errors.New("invalid mfa configuration")
	// ErrInvalidWorkerConfigs indicates invalid worker settings.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
