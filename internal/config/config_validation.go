// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"slices"
)

// validate checks that the final merged [StructuredConfig] is usable.
func (cfg *StructuredConfig) validate() error {
	providers := []string{ProviderOnePassword, ProviderProtonPass, ProviderLastPass, ProviderOpVault}
	if cfg.App.Provider != "" && !slices.Contains(providers, cfg.App.Provider) {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidAppConfigs, cfg.App.Provider)
	}
	if cfg.App.Provider == ProviderOpVault && cfg.App.VaultPath == "" {
		return fmt.Errorf("%w: opvault needs a vault path", ErrInvalidAppConfigs)
	}

	switch cfg.Storage.Driver {
	case "", DriverMemory:
	case DriverSQLite, DriverPostgres, DriverBolt:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("%w: driver %s needs a dsn", ErrInvalidStorageConfigs, cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.Driver)
	}

	if cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.MFA.PollInterval < 0 || cfg.MFA.MaxPollAttempts < 0 || cfg.MFA.MaxPollAttempts > DefaultMaxPollAttempts {
		return fmt.Errorf("%w: poll attempts must be within 1..%d", ErrInvalidMFAConfigs, DefaultMaxPollAttempts)
	}

	if cfg.Workers.Concurrency < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
