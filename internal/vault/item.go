// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"github.com/MKhiriev/go-vault-access/models"
)

// Item is an encrypted record as downloaded from a provider.
type Item struct {
	ID string
	// Type is the provider's discriminator (template uuid, category code,
	// content case).
	Type    string
	Deleted bool
	// Key is the encrypted per-item key, nil when the item is encrypted
	// directly with a vault or master key.
	Key     []byte
	Content []byte
	// Raw keeps the provider specific record for decryptors that need more
	// than Key and Content.
	Raw any
}

// ItemDecryptor is the provider side of the pipeline.
type ItemDecryptor interface {
	// Supports reports whether items of this type can become accounts.
	Supports(item Item) bool
	// Decrypt verifies and decrypts item.
	Decrypt(item Item) (models.Account, error)
}

// Decryptor is an ItemDecryptor assembled from functions. A nil Filter
// accepts every item.
type Decryptor struct {
	Filter func(item Item) bool
	Open   func(item Item) (models.Account, error)
}

func (d Decryptor) Supports(item Item) bool {
	if d.Filter == nil {
		return true
	}
	return d.Filter(item)
}

func (d Decryptor) Decrypt(item Item) (models.Account, error) {
	return d.Open(item)
}

// TypeFilter accepts items whose Type is one of types.
func TypeFilter(types ...string) func(Item) bool {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(item Item) bool {
		_, ok := set[item.Type]
		return ok
	}
}
