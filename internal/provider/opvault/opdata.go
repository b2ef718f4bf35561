// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package opvault

import (
	"encoding/binary"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/crypto"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/utils"
)

const (
	opdataHeader = "opdata01"
	// header, plaintext length, iv, at least one block, tag
	opdataMinSize = 8 + 8 + 16 + 16 + 32

	itemKeySize = 112
)

// decryptOpdata opens an opdata01 container: the tag is checked before
// anything is decrypted, the random padding in front of the plaintext is
// dropped.
func decryptOpdata(blob []byte, key *keychain.Key) ([]byte, error) {
	if len(blob) < opdataMinSize {
		return nil, ErrOpdataSize
	}
	if string(blob[:8]) != opdataHeader {
		return nil, ErrOpdataHeader
	}

	signed, storedTag := blob[:len(blob)-32], blob[len(blob)-32:]
	if !crypto.Equal(crypto.HMACSHA256(key.MAC, signed), storedTag) {
		return nil, fmt.Errorf("opdata01: %w", crypto.ErrAuthentication)
	}

	length := binary.LittleEndian.Uint64(blob[8:16])
	iv := blob[16:32]
	ciphertext := signed[32:]

	plaintext, err := crypto.DecryptAES256(crypto.CBC, crypto.PaddingNone, key.Encryption, iv, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("opdata01: %w", err)
	}

	if length > uint64(len(plaintext)) {
		return nil, ErrOpdataSize
	}
	return plaintext[len(plaintext)-int(length):], nil
}

func decryptOpdataBase64(encoded string, key *keychain.Key) ([]byte, error) {
	blob, err := utils.DecodeBase64(encoded)
	if err != nil {
		return nil, err
	}
	return decryptOpdata(blob, key)
}

// keyFromRaw hashes decrypted key material into an encryption and a MAC
// half.
func keyFromRaw(id string, raw []byte) *keychain.Key {
	h := crypto.SHA512Sum(raw)
	return &keychain.Key{ID: id, Encryption: h[:32], MAC: h[32:]}
}

// decryptItemKey opens the 112 byte item key: iv(16) | ciphertext(64) |
// tag(32) with the tag over the first 80 bytes.
func decryptItemKey(encoded string, master *keychain.Key) (*keychain.Key, error) {
	raw, err := utils.DecodeBase64(encoded)
	if err != nil {
		return nil, err
	}
	if len(raw) != itemKeySize {
		return nil, ErrItemKeySize
	}

	iv, ciphertext, storedTag := raw[:16], raw[16:80], raw[80:]
	if !crypto.Equal(crypto.HMACSHA256(master.MAC, raw[:80]), storedTag) {
		return nil, ErrItemKeyTag
	}

	plain, err := crypto.DecryptAES256(crypto.CBC, crypto.PaddingNone, master.Encryption, iv, ciphertext)
	if err != nil {
		return nil, err
	}

	return &keychain.Key{Encryption: plain[:32], MAC: plain[32:]}, nil
}
