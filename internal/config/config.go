// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// Provider names accepted in App.Provider.
const (
	ProviderOnePassword = "onepassword"
	ProviderProtonPass  = "protonpass"
	ProviderLastPass    = "lastpass"
	ProviderOpVault     = "opvault"
)

// Storage drivers accepted in Storage.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging values from environment variables, command-line flags, an
// optional JSON file and finally the built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App selects the provider and identifies the user and device.
	App App `envPrefix:"APP_"`

	// Adapter holds outbound HTTP settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage selects the backend for remember-me tokens and session ids.
	Storage Storage `envPrefix:"STORAGE_"`

	// MFA tunes out-of-band polling.
	MFA MFA `envPrefix:"MFA_"`

	// Workers bounds concurrent vault downloads.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds the login target.
type App struct {
	// Provider is one of onepassword, protonpass, lastpass or opvault.
	// Env: APP_PROVIDER
	Provider string `env:"PROVIDER"`

	// Username is the account e-mail or login name.
	// Env: APP_USERNAME
	Username string `env:"USERNAME"`

	// Domain overrides the provider's default server, e.g. "1password.eu".
	// Env: APP_DOMAIN
	Domain string `env:"DOMAIN"`

	// VaultPath is the OpVault directory for the local provider.
	// Env: APP_VAULT_PATH
	VaultPath string `env:"VAULT_PATH"`

	// DeviceID is the stable id this client registers with providers that
	// track devices. Generated and stored on first run when empty.
	// Env: APP_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// DeviceName is the human readable device label shown by the provider.
	// Env: APP_DEVICE_NAME
	DeviceName string `env:"DEVICE_NAME"`

	// Output is a file the opened accounts are exported to as JSON, "-"
	// for stdout. Empty opens the interactive browser.
	// Env: APP_OUTPUT
	Output string `env:"OUTPUT"`
}

// Adapter holds settings of the HTTP transport.
type Adapter struct {
	// RequestTimeout bounds a single request (e.g. "30s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// UserAgent is sent with every request.
	// Env: ADAPTER_USER_AGENT
	UserAgent string `env:"USER_AGENT"`

	// InsecureSkipVerify disables TLS verification for debugging proxies.
	// Env: ADAPTER_INSECURE_SKIP_VERIFY
	InsecureSkipVerify bool `env:"INSECURE_SKIP_VERIFY"`
}

// Storage selects where the secure storage keeps its strings.
type Storage struct {
	// Driver is one of memory, sqlite, postgres or bolt.
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the connection string or file path of the selected driver.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// MFA tunes the out-of-band polling loop.
type MFA struct {
	// PollInterval is the delay between two status polls.
	// Env: MFA_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// MaxPollAttempts is the hard ceiling of status polls per approval.
	// Env: MFA_MAX_POLL_ATTEMPTS
	MaxPollAttempts int `env:"MAX_POLL_ATTEMPTS"`
}

// Workers bounds concurrency of post-login downloads.
type Workers struct {
	// Concurrency is the number of vaults downloaded at the same time.
	// Env: WORKERS_CONCURRENCY
	Concurrency int `env:"CONCURRENCY"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources. For every field the first source that sets it
// wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		withDefaults().
		build()
}
