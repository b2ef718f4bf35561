// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors StructuredConfig with JSON friendly
// durations.
type StructuredJSONConfig struct {
	App struct {
		Provider   string `json:"provider"`
		Username   string `json:"username"`
		Domain     string `json:"domain"`
		VaultPath  string `json:"vault_path"`
		DeviceID   string `json:"device_id"`
		DeviceName string `json:"device_name"`
		Output     string `json:"output"`
	} `json:"app,omitempty"`

	Adapter struct {
		RequestTimeout     Duration `json:"request_timeout"`
		UserAgent          string   `json:"user_agent"`
		InsecureSkipVerify bool     `json:"insecure_skip_verify"`
	} `json:"adapter,omitempty"`

	Storage struct {
		Driver string `json:"driver"`
		DSN    string `json:"dsn"`
	} `json:"storage,omitempty"`

	MFA struct {
		PollInterval    Duration `json:"poll_interval"`
		MaxPollAttempts int      `json:"max_poll_attempts"`
	} `json:"mfa,omitempty"`

	Workers struct {
		Concurrency int `json:"concurrency"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Provider:   jsonCfg.App.Provider,
			Username:   jsonCfg.App.Username,
			Domain:     jsonCfg.App.Domain,
			VaultPath:  jsonCfg.App.VaultPath,
			DeviceID:   jsonCfg.App.DeviceID,
			DeviceName: jsonCfg.App.DeviceName,
			Output:     jsonCfg.App.Output,
		},
		Adapter: Adapter{
			RequestTimeout:     time.Duration(jsonCfg.Adapter.RequestTimeout),
			UserAgent:          jsonCfg.Adapter.UserAgent,
			InsecureSkipVerify: jsonCfg.Adapter.InsecureSkipVerify,
		},
		Storage: Storage{
			Driver: jsonCfg.Storage.Driver,
			DSN:    jsonCfg.Storage.DSN,
		},
		MFA: MFA{
			PollInterval:    time.Duration(jsonCfg.MFA.PollInterval),
			MaxPollAttempts: jsonCfg.MFA.MaxPollAttempts,
		},
		Workers: Workers{
			Concurrency: jsonCfg.Workers.Concurrency,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
