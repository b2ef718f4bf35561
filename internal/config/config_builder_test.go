// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_FirstSourceWins verifies that a field set by an earlier source
// is not overwritten by a later one, while zero fields are filled.
func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Provider: ProviderLastPass}},
		&StructuredConfig{App: App{Provider: ProviderProtonPass, Username: "alice"}},
	)

	cfg, err := b.withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, ProviderLastPass, cfg.App.Provider)
	assert.Equal(t, "alice", cfg.App.Username)
	assert.Equal(t, DefaultMaxPollAttempts, cfg.MFA.MaxPollAttempts)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestBuild_ValidationFailure(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Storage: Storage{Driver: DriverSQLite}})

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

// ── withFlags / withJSON ──────────────────────────────────────────────────────

func TestWithJSON_UsesPathFromFlags(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"app":     map[string]any{"provider": "protonpass", "username": "json-user"},
		"mfa":     map[string]any{"poll_interval": "250ms"},
		"workers": map[string]any{"concurrency": 8},
	})

	cfg, err := newConfigBuilder().
		withFlags([]string{"-u", "flag-user", "-c", path}).
		withJSON().
		withDefaults().
		build()
	require.NoError(t, err)

	assert.Equal(t, "flag-user", cfg.App.Username)
	assert.Equal(t, ProviderProtonPass, cfg.App.Provider)
	assert.Equal(t, 250*time.Millisecond, cfg.MFA.PollInterval)
	assert.Equal(t, 8, cfg.Workers.Concurrency)
}

func TestWithJSON_MissingFileIsError(t *testing.T) {
	_, err := newConfigBuilder().
		withFlags([]string{"-config", "/does/not/exist.json"}).
		withJSON().
		build()
	assert.Error(t, err)
}

func TestWithFlags_InvalidFlagIsError(t *testing.T) {
	_, err := newConfigBuilder().withFlags([]string{"-p", "keepass"}).build()
	assert.Error(t, err)
}

// ── validate ─────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StructuredConfig
		wantErr error
	}{
		{"defaults", *Defaults(), nil},
		{"unknown provider", StructuredConfig{App: App{Provider: "dashlane"}}, ErrInvalidAppConfigs},
		{"opvault without path", StructuredConfig{App: App{Provider: ProviderOpVault}}, ErrInvalidAppConfigs},
		{"bolt without dsn", StructuredConfig{Storage: Storage{Driver: DriverBolt}}, ErrInvalidStorageConfigs},
		{"unknown driver", StructuredConfig{Storage: Storage{Driver: "redis"}}, ErrInvalidStorageConfigs},
		{"poll ceiling too high", StructuredConfig{MFA: MFA{MaxPollAttempts: 101}}, ErrInvalidMFAConfigs},
		{"negative timeout", StructuredConfig{Adapter: Adapter{RequestTimeout: -1}}, ErrInvalidAdapterConfigs},
		{"negative concurrency", StructuredConfig{Workers: Workers{Concurrency: -1}}, ErrInvalidWorkerConfigs},
		{"postgres with dsn", StructuredConfig{Storage: Storage{Driver: DriverPostgres, DSN: "postgres://x"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
