// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneOf_Set(t *testing.T) {
	o := OneOf{Choices: []string{"a", "b"}}

	require.NoError(t, o.Set(" B "))
	assert.Equal(t, "b", o.String())

	assert.Error(t, o.Set("c"))
	assert.Equal(t, "b", o.Value)
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-p", "lastpass",
		"-u", "bob",
		"-domain", "lastpass.eu",
		"-vault", "/tmp/v",
		"-device-id", "id-1",
		"-device-name", "desk",
		"-o", "-",
		"-request-timeout", "10s",
		"-user-agent", "ua",
		"-insecure",
		"-storage", "bolt",
		"-d", "/tmp/vault.bolt",
		"-poll-interval", "500ms",
		"-poll-attempts", "20",
		"-concurrency", "2",
		"-config", "/tmp/c.json",
	})
	require.NoError(t, err)

	assert.Equal(t, App{
		Provider:   "lastpass",
		Username:   "bob",
		Domain:     "lastpass.eu",
		VaultPath:  "/tmp/v",
		DeviceID:   "id-1",
		DeviceName: "desk",
		Output:     "-",
	}, cfg.App)
	assert.Equal(t, Adapter{RequestTimeout: 10 * time.Second, UserAgent: "ua", InsecureSkipVerify: true}, cfg.Adapter)
	assert.Equal(t, Storage{Driver: "bolt", DSN: "/tmp/vault.bolt"}, cfg.Storage)
	assert.Equal(t, MFA{PollInterval: 500 * time.Millisecond, MaxPollAttempts: 20}, cfg.MFA)
	assert.Equal(t, 2, cfg.Workers.Concurrency)
	assert.Equal(t, "/tmp/c.json", cfg.JSONFilePath)
}

func TestParseFlags_NoArgs(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseFlags_UnknownDriver(t *testing.T) {
	_, err := ParseFlags([]string{"-storage", "redis"})
	assert.Error(t, err)
}
