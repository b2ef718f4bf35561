// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/provider"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

// fakeUI answers the credential prompt and records the browsed vault.
// Second factors are never asked for here.
type fakeUI struct {
	UI

	credential models.Credential
	credErr    error
	browsed    *vault.Result
}

func (f *fakeUI) ReadCredential(_ context.Context, _, _ string) (models.Credential, error) {
	return f.credential, f.credErr
}

func (f *fakeUI) Browse(_ context.Context, result vault.Result) error {
	f.browsed = &result
	return nil
}

func newTestApp(t *testing.T, cfg *config.StructuredConfig, ui UI) *App {
	t.Helper()
	app, err := NewApp(context.Background(), cfg, ui, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func sampleResult() vault.Result {
	return vault.Result{
		Accounts: []models.Account{
			{ID: "a1", Name: "mail", Username: "neo", Password: "matrix", URLs: []string{"https://mail.example"}},
		},
		Folders:  []models.Folder{{ID: "f1", Title: "Personal"}},
		Failures: []*vault.ItemError{{ItemID: "broken", Err: errors.New("bad tag")}},
	}
}

// ── NewApp ───────────────────────────────────────────────────────────────────

func TestNewApp_RequiresProvider(t *testing.T) {
	_, err := NewApp(context.Background(), &config.StructuredConfig{}, &fakeUI{}, logger.Nop())
	assert.ErrorIs(t, err, ErrNoProvider)
}

// ── Run ──────────────────────────────────────────────────────────────────────

func TestRun_BrowsesOpenedVault(t *testing.T) {
	cfg := &config.StructuredConfig{App: config.App{Provider: config.ProviderLastPass, Username: "neo"}}
	ui := &fakeUI{credential: models.Credential{Username: "neo", Password: "matrix"}}
	app := newTestApp(t, cfg, ui)

	var got models.Credential
	app.openers[config.ProviderLastPass] = func(_ context.Context, opts provider.Options, c models.Credential, _ UI) (vault.Result, error) {
		got = c
		assert.NotNil(t, opts.Transport)
		assert.NotNil(t, opts.Storage)
		return sampleResult(), nil
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, "matrix", got.Password)
	require.NotNil(t, ui.browsed)
	assert.Len(t, ui.browsed.Accounts, 1)
}

func TestRun_ExportsToStdout(t *testing.T) {
	cfg := &config.StructuredConfig{App: config.App{Provider: config.ProviderOpVault, Output: "-"}}
	ui := &fakeUI{}
	app := newTestApp(t, cfg, ui)

	var out bytes.Buffer
	app.stdout = &out
	app.openers[config.ProviderOpVault] = func(context.Context, provider.Options, models.Credential, UI) (vault.Result, error) {
		return sampleResult(), nil
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Nil(t, ui.browsed)

	var doc exportDocument
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, "neo", doc.Accounts[0].Username)
	assert.Equal(t, []exportFailure{{ItemID: "broken", Error: sampleResult().Failures[0].Error()}}, doc.Failures)
}

func TestRun_ExportsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	cfg := &config.StructuredConfig{App: config.App{Provider: config.ProviderOpVault, Output: path}}
	app := newTestApp(t, cfg, &fakeUI{})
	app.openers[config.ProviderOpVault] = func(context.Context, provider.Options, models.Credential, UI) (vault.Result, error) {
		return vault.Result{}, nil
	}

	require.NoError(t, app.Run(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accounts":[]}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRun_Errors(t *testing.T) {
	openErr := errors.New("boom")

	tests := []struct {
		name     string
		provider string
		credErr  error
		openErr  error
		wantErr  error
	}{
		{name: "unknown provider", provider: "keepass", wantErr: ErrNoProvider},
		{name: "credential canceled", provider: config.ProviderProtonPass, credErr: mfa.ErrCanceled, wantErr: mfa.ErrCanceled},
		{name: "open failed", provider: config.ProviderProtonPass, openErr: openErr, wantErr: openErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.StructuredConfig{App: config.App{Provider: tt.provider}}
			ui := &fakeUI{credErr: tt.credErr}
			app := newTestApp(t, cfg, ui)
			app.openers[config.ProviderProtonPass] = func(context.Context, provider.Options, models.Credential, UI) (vault.Result, error) {
				return vault.Result{}, tt.openErr
			}

			err := app.Run(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, ui.browsed)
		})
	}
}
