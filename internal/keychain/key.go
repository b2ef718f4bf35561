// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keychain

import (
	"crypto/rsa"

	"github.com/MKhiriev/go-vault-access/internal/crypto"
)

// MasterKeyID is the encryptor id providers use for the password derived
// root key.
const MasterKeyID = "mp"

// Key is resolved key material. Symmetric keys carry Encryption and
// optionally MAC bytes, asymmetric keys carry a private key.
type Key struct {
	ID         string
	Encryption []byte
	MAC        []byte
	Private    *rsa.PrivateKey
}

// Equal reports whether two keys hold the same material.
func (k *Key) Equal(other *Key) bool {
	if k == nil || other == nil {
		return k == other
	}

	if k.ID != other.ID || !crypto.Equal(k.Encryption, other.Encryption) || !crypto.Equal(k.MAC, other.MAC) {
		return false
	}

	if k.Private == nil || other.Private == nil {
		return k.Private == other.Private
	}

	return k.Private.Equal(other.Private)
}

// Record is an encrypted key as stored by the provider. Blob is opaque to
// this package and only interpreted by the Decrypter.
type Record struct {
	ID          string
	EncryptedBy string
	Serial      int
	Blob        any
}

// Decrypter unwraps a record with its resolved parent key.
type Decrypter func(parent *Key, record Record) (*Key, error)
