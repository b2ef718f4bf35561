// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultUserAgent       = "go-vault-access/1.0"
	DefaultDeviceName      = "go-vault-access"
	DefaultPollInterval    = time.Second
	DefaultMaxPollAttempts = 100
	DefaultConcurrency     = 4
)

// Defaults returns the values used for everything no other source sets.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			DeviceName: DefaultDeviceName,
		},
		Adapter: Adapter{
			RequestTimeout: DefaultRequestTimeout,
			UserAgent:      DefaultUserAgent,
		},
		Storage: Storage{
			Driver: DriverMemory,
		},
		MFA: MFA{
			PollInterval:    DefaultPollInterval,
			MaxPollAttempts: DefaultMaxPollAttempts,
		},
		Workers: Workers{
			Concurrency: DefaultConcurrency,
		},
	}
}
