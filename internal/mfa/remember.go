// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mfa

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/store"
)

// RememberMe stores the token a server issues after a successful second
// factor under a fixed key.
type RememberMe struct {
	storage store.SecureStorage
	key     string
}

// NewRememberMe binds the token to key in storage.
func NewRememberMe(storage store.SecureStorage, key string) RememberMe {
	return RememberMe{storage: storage, key: key}
}

// Load returns the stored token or an empty string.
func (r RememberMe) Load(ctx context.Context) (string, error) {
	token, err := r.storage.LoadString(ctx, r.key)
	if err != nil {
		return "", fmt.Errorf("load remember-me token: %w", err)
	}
	return token, nil
}

// Save stores token. An empty token is ignored.
func (r RememberMe) Save(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := r.storage.StoreString(ctx, r.key, &token); err != nil {
		return fmt.Errorf("store remember-me token: %w", err)
	}
	return nil
}

// Clear removes the stored token.
func (r RememberMe) Clear(ctx context.Context) error {
	if err := r.storage.StoreString(ctx, r.key, nil); err != nil {
		return fmt.Errorf("clear remember-me token: %w", err)
	}
	return nil
}

// Try submits the stored token when the server offers the remember-me
// factor. It returns used=false when there is nothing to try. A rejected
// token is cleared and reported as ErrRememberTokenRejected so the caller
// restarts the login.
func (r RememberMe) Try(
	ctx context.Context,
	offered bool,
	submit func(ctx context.Context, token string) (accepted bool, err error),
) (bool, error) {
	if !offered {
		return false, nil
	}

	token, err := r.Load(ctx)
	if err != nil || token == "" {
		return false, err
	}

	accepted, err := submit(ctx, token)
	if err != nil {
		return true, err
	}
	if accepted {
		return true, nil
	}

	if err = r.Clear(ctx); err != nil {
		return true, err
	}
	return true, ErrRememberTokenRejected
}
