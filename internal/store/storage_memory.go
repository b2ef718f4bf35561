// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"maps"
	"sync"
)

// MemoryStorage keeps values for the lifetime of the process only.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemoryStorage returns an empty in-memory SecureStorage. initial is
// copied and may be nil.
func NewMemoryStorage(initial map[string]string) *MemoryStorage {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)
	return &MemoryStorage{values: values}
}

func (m *MemoryStorage) LoadString(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrStorageClosed
	}
	return m.values[key], nil
}

func (m *MemoryStorage) StoreString(ctx context.Context, key string, value *string) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageClosed
	}

	if value == nil {
		delete(m.values, key)
		return nil
	}
	m.values[key] = *value
	return nil
}

// Snapshot returns a copy of every stored value.
func (m *MemoryStorage) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}

func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
