// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-vault-access/internal/duo"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run opens the configured vault and blocks until the user is done
	// with it.
	Run(ctx context.Context) error
}

// UI is the interactive side of a run: the credential prompt, every
// second factor any provider may ask for and the vault browser.
type UI interface {
	mfa.UI
	duo.UI

	ReadCredential(ctx context.Context, provider, username string) (models.Credential, error)
	Browse(ctx context.Context, result vault.Result) error
}
