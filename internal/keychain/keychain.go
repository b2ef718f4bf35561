// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keychain

import (
	"fmt"
	"sort"
	"sync"
)

// Keychain is the append-only set of resolved keys of one session.
// Lookups are safe for concurrent use.
type Keychain struct {
	mu   sync.RWMutex
	keys map[string]*Key
}

// New returns an empty Keychain.
func New() *Keychain {
	return &Keychain{keys: make(map[string]*Key)}
}

// Add inserts key. Adding the same material twice is a no-op; adding
// different material under an existing id fails with ErrKeyConflict.
func (k *Keychain) Add(key *Key) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if existing, ok := k.keys[key.ID]; ok {
		if existing.Equal(key) {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrKeyConflict, key.ID)
	}

	k.keys[key.ID] = key
	return nil
}

// Get returns the key with id.
func (k *Keychain) Get(id string) (*Key, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	key, ok := k.keys[id]
	return key, ok
}

// MustGet is Get that fails with ErrKeyNotFound.
func (k *Keychain) MustGet(id string) (*Key, error) {
	key, ok := k.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, id)
	}
	return key, nil
}

// CanDecrypt reports whether the encryptor of record is resolved.
func (k *Keychain) CanDecrypt(record Record) bool {
	_, ok := k.Get(record.EncryptedBy)
	return ok
}

// Decrypt runs open with the key id. The key lookup is the only part done
// under the lock.
func (k *Keychain) Decrypt(id string, open func(*Key) ([]byte, error)) ([]byte, error) {
	key, err := k.MustGet(id)
	if err != nil {
		return nil, err
	}
	return open(key)
}

// Len returns the number of resolved keys.
func (k *Keychain) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}

// IDs returns the sorted ids of all resolved keys.
func (k *Keychain) IDs() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	ids := make([]string, 0, len(k.keys))
	for id := range k.keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
