// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package provider holds what every provider client is built from: the
// transport, the secure storage, the logger and the device identity.
// The provider implementations live in the sub-packages.
package provider

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/store"
	"github.com/MKhiriev/go-vault-access/internal/utils"
)

// DeviceIDKey is the storage key of a generated device id.
const DeviceIDKey = "device-id"

// Device identifies this client to providers that track devices.
type Device struct {
	ID   string
	Name string
}

// Options are shared by all network providers.
type Options struct {
	Transport adapter.Transport
	Storage   store.SecureStorage
	Logger    *logger.Logger

	// Domain overrides the provider's default server.
	Domain string
	Device Device
	Poll   mfa.PollConfig
	// Concurrency bounds parallel vault downloads.
	Concurrency int
	// Random feeds SRP ephemerals and nonces.
	Random io.Reader
}

// NewOptions fills Options from the configuration.
func NewOptions(
	cfg *config.StructuredConfig,
	transport adapter.Transport,
	storage store.SecureStorage,
	log *logger.Logger,
) Options {
	return Options{
		Transport: transport,
		Storage:   storage,
		Logger:    log,
		Domain:    cfg.App.Domain,
		Device: Device{
			ID:   cfg.App.DeviceID,
			Name: cfg.App.DeviceName,
		},
		Poll: mfa.PollConfig{
			Interval:    cfg.MFA.PollInterval,
			MaxAttempts: cfg.MFA.MaxPollAttempts,
		},
		Concurrency: cfg.Workers.Concurrency,
	}
}

// Normalize validates o and fills the optional parts. provider names the
// caller in logs.
func (o Options) Normalize(provider string) (Options, error) {
	if o.Transport == nil {
		return Options{}, fmt.Errorf("%s: %w", provider, ErrNoTransport)
	}
	if o.Storage == nil {
		o.Storage = store.NewMemoryStorage(nil)
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	o.Logger = o.Logger.WithProvider(provider)
	if o.Random == nil {
		o.Random = rand.Reader
	}
	if o.Device.Name == "" {
		o.Device.Name = DefaultDeviceName
	}
	return o, nil
}

// DefaultDeviceName is shown by providers when no name is configured.
const DefaultDeviceName = "go-vault-access"

// ResolveDeviceID returns the configured device id. Without one, the id
// stored by an earlier run is used, or a new one is generated and stored.
func (o Options) ResolveDeviceID(ctx context.Context, generate func() string) (string, error) {
	if o.Device.ID != "" {
		return o.Device.ID, nil
	}

	id, err := o.Storage.LoadString(ctx, DeviceIDKey)
	if err != nil {
		return "", fmt.Errorf("load device id: %w", err)
	}
	if id != "" {
		return id, nil
	}

	if generate == nil {
		generate = utils.NewUUIDGenerator().Generate
	}
	id = generate()
	if err = o.Storage.StoreString(ctx, DeviceIDKey, &id); err != nil {
		return "", fmt.Errorf("store device id: %w", err)
	}

	return id, nil
}
