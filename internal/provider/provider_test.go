// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/mock"
	"github.com/MKhiriev/go-vault-access/internal/store"
)

func TestNewOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mock.NewMockTransport(ctrl)

	cfg := &config.StructuredConfig{
		App:     config.App{Domain: "1password.eu", DeviceID: "dev", DeviceName: "laptop"},
		MFA:     config.MFA{PollInterval: 2 * time.Second, MaxPollAttempts: 7},
		Workers: config.Workers{Concurrency: 3},
	}

	o := NewOptions(cfg, transport, nil, logger.Nop())

	assert.Equal(t, "1password.eu", o.Domain)
	assert.Equal(t, Device{ID: "dev", Name: "laptop"}, o.Device)
	assert.Equal(t, 2*time.Second, o.Poll.Interval)
	assert.Equal(t, 7, o.Poll.MaxAttempts)
	assert.Equal(t, 3, o.Concurrency)
}

func TestNormalize(t *testing.T) {
	_, err := Options{}.Normalize("lastpass")
	assert.ErrorIs(t, err, ErrNoTransport)
	assert.ErrorIs(t, err, app.ErrInternal)

	ctrl := gomock.NewController(t)
	o, err := Options{Transport: mock.NewMockTransport(ctrl)}.Normalize("lastpass")
	require.NoError(t, err)

	assert.NotNil(t, o.Storage)
	assert.NotNil(t, o.Logger)
	assert.NotNil(t, o.Random)
	assert.Equal(t, DefaultDeviceName, o.Device.Name)
}

// ── ResolveDeviceID ──────────────────────────────────────────────────────────

func TestResolveDeviceID_Configured(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockSecureStorage(ctrl)

	id, err := Options{Storage: storage, Device: Device{ID: "configured"}}.ResolveDeviceID(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "configured", id)
}

func TestResolveDeviceID_GeneratedOnceThenStored(t *testing.T) {
	storage := store.NewMemoryStorage(nil)
	o := Options{Storage: storage}

	calls := 0
	generate := func() string {
		calls++
		return "generated-id"
	}

	first, err := o.ResolveDeviceID(context.Background(), generate)
	require.NoError(t, err)
	second, err := o.ResolveDeviceID(context.Background(), generate)
	require.NoError(t, err)

	assert.Equal(t, "generated-id", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, map[string]string{DeviceIDKey: "generated-id"}, storage.Snapshot())
}

func TestResolveDeviceID_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockSecureStorage(ctrl)
	storage.EXPECT().LoadString(gomock.Any(), DeviceIDKey).Return("", errors.New("disk full"))

	_, err := Options{Storage: storage}.ResolveDeviceID(context.Background(), nil)
	assert.ErrorContains(t, err, "disk full")
}
