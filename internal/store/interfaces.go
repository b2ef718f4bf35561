// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/storage_mock.go -package=mock

// SecureStorage persists opaque strings across runs.
//
// LoadString returns an empty string and no error when key is not set.
// StoreString with a nil value removes key.
type SecureStorage interface {
	LoadString(ctx context.Context, key string) (string, error)
	StoreString(ctx context.Context, key string, value *string) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
