// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// OneOf is a flag.Value restricted to a fixed set of choices.
type OneOf struct {
	Choices []string
	Value   string
}

// String returns the selected choice.
func (o *OneOf) String() string {
	return o.Value
}

// Set accepts s when it is one of the choices, case-insensitively.
func (o *OneOf) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range o.Choices {
		if s == c {
			o.Value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(o.Choices, ", "))
}

// ParseFlags parses configuration flags from args.
//
// Flags:
//
//	-p provider (onepassword, protonpass, lastpass, opvault)
//	-u username
//	-domain provider domain override
//	-vault OpVault directory
//	-device-id device id
//	-device-name device name
//	-o JSON export path, "-" for stdout
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-user-agent User-Agent header
//	-insecure skip TLS verification
//	-storage storage driver (memory, sqlite, postgres, bolt)
//	-d storage DSN
//	-poll-interval out-of-band poll interval
//	-poll-attempts out-of-band poll ceiling
//	-concurrency concurrent vault downloads
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("vault-access", flag.ContinueOnError)

	provider := OneOf{Choices: []string{ProviderOnePassword, ProviderProtonPass, ProviderLastPass, ProviderOpVault}}
	driver := OneOf{Choices: []string{DriverMemory, DriverSQLite, DriverPostgres, DriverBolt}}

	var (
		username, domain, vaultPath    string
		deviceID, deviceName, output   string
		userAgent, dsn, jsonConfigPath string
		requestTimeout, pollInterval   time.Duration
		pollAttempts, concurrency      int
		insecure                       bool
	)

	fs.Var(&provider, "p", "Provider: onepassword, protonpass, lastpass, opvault")
	fs.StringVar(&username, "u", "", "Username or e-mail")
	fs.StringVar(&domain, "domain", "", "Provider domain override")
	fs.StringVar(&vaultPath, "vault", "", "OpVault directory")
	fs.StringVar(&deviceID, "device-id", "", "Device id")
	fs.StringVar(&deviceName, "device-name", "", "Device name")
	fs.StringVar(&output, "o", "", "Export accounts as JSON to a file, - for stdout")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&userAgent, "user-agent", "", "User-Agent header")
	fs.BoolVar(&insecure, "insecure", false, "Skip TLS verification")
	fs.Var(&driver, "storage", "Storage driver: memory, sqlite, postgres, bolt")
	fs.StringVar(&dsn, "d", "", "Storage DSN or file path")
	fs.DurationVar(&pollInterval, "poll-interval", 0, "Out-of-band poll interval")
	fs.IntVar(&pollAttempts, "poll-attempts", 0, "Out-of-band poll ceiling")
	fs.IntVar(&concurrency, "concurrency", 0, "Concurrent vault downloads")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Provider:   provider.Value,
			Username:   username,
			Domain:     domain,
			VaultPath:  vaultPath,
			DeviceID:   deviceID,
			DeviceName: deviceName,
			Output:     output,
		},
		Adapter: Adapter{
			RequestTimeout:     requestTimeout,
			UserAgent:          userAgent,
			InsecureSkipVerify: insecure,
		},
		Storage: Storage{
			Driver: driver.Value,
			DSN:    dsn,
		},
		MFA: MFA{
			PollInterval:    pollInterval,
			MaxPollAttempts: pollAttempts,
		},
		Workers: Workers{
			Concurrency: concurrency,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
