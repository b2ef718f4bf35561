// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/logger"
)

func ptr(s string) *string { return &s }

// exerciseStorage runs the same contract against any backend.
func exerciseStorage(t *testing.T, s SecureStorage) {
	t.Helper()
	ctx := context.Background()

	v, err := s.LoadString(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.StoreString(ctx, "session-id", ptr("abc")))
	v, err = s.LoadString(ctx, "session-id")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.StoreString(ctx, "session-id", ptr("def")))
	v, err = s.LoadString(ctx, "session-id")
	require.NoError(t, err)
	assert.Equal(t, "def", v)

	require.NoError(t, s.StoreString(ctx, "session-id", nil))
	v, err = s.LoadString(ctx, "session-id")
	require.NoError(t, err)
	assert.Empty(t, v)

	// clearing twice is fine
	require.NoError(t, s.StoreString(ctx, "session-id", nil))

	assert.ErrorIs(t, s.StoreString(ctx, "", ptr("x")), ErrEmptyKey)
	_, err = s.LoadString(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

// ── Memory ───────────────────────────────────────────────────────────────────

func TestMemoryStorage_Contract(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage(nil))
}

func TestMemoryStorage_InitialIsCopied(t *testing.T) {
	initial := map[string]string{"a": "1"}
	m := NewMemoryStorage(initial)
	initial["a"] = "changed"

	v, err := m.LoadString(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	assert.Equal(t, map[string]string{"a": "1"}, m.Snapshot())
}

func TestMemoryStorage_Closed(t *testing.T) {
	m := NewMemoryStorage(nil)
	require.NoError(t, m.Close())

	_, err := m.LoadString(context.Background(), "a")
	assert.ErrorIs(t, err, ErrStorageClosed)
	assert.ErrorIs(t, m.StoreString(context.Background(), "a", nil), ErrStorageClosed)
}

func TestMemoryStorage_ConcurrentAccess(t *testing.T) {
	m := NewMemoryStorage(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i))
			_ = m.StoreString(ctx, key, ptr(key))
			_, _ = m.LoadString(ctx, key)
		}()
	}
	wg.Wait()

	assert.Len(t, m.Snapshot(), 16)
}

// ── Bolt ─────────────────────────────────────────────────────────────────────

func TestBoltStorage_Contract(t *testing.T) {
	b, err := NewBoltStorage(filepath.Join(t.TempDir(), "vault.bolt"), logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	exerciseStorage(t, b)
}

func TestBoltStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.bolt")
	ctx := context.Background()

	b, err := NewBoltStorage(path, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, b.StoreString(ctx, "device-id", ptr("d1")))
	require.NoError(t, b.Close())

	b, err = NewBoltStorage(path, logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	v, err := b.LoadString(ctx, "device-id")
	require.NoError(t, err)
	assert.Equal(t, "d1", v)
}

func TestBoltStorage_CanceledContext(t *testing.T) {
	b, err := NewBoltStorage(filepath.Join(t.TempDir(), "vault.bolt"), logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.LoadString(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

// ── SQLite ───────────────────────────────────────────────────────────────────

func TestNewStorages_SQLite(t *testing.T) {
	cfg := config.Storage{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "nested", "vault.db"),
	}

	s, err := NewStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s.SecureStorage)
}

// ── NewStorages ──────────────────────────────────────────────────────────────

func TestNewStorages_Memory(t *testing.T) {
	s, err := NewStorages(context.Background(), config.Storage{Driver: config.DriverMemory}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s.SecureStorage)
	assert.NoError(t, s.Close())
}

func TestNewStorages_Bolt(t *testing.T) {
	cfg := config.Storage{Driver: config.DriverBolt, DSN: filepath.Join(t.TempDir(), "b.db")}
	s, err := NewStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestNewStorages_UnknownDriver(t *testing.T) {
	_, err := NewStorages(context.Background(), config.Storage{Driver: "redis"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
