// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protonpass

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/crypto"
	"github.com/MKhiriev/go-vault-access/internal/utils"
)

const gcmIVSize = 12

// Associated data of the three AES-GCM layers.
var (
	adVaultContent = []byte("vaultcontent")
	adItemKey      = []byte("itemkey")
	adItemContent  = []byte("itemcontent")
)

// session is an authenticated API client plus the unlocked primary user
// key.
type session struct {
	rest  *adapter.RestClient
	uid   string
	keyID string

	mu      sync.Mutex
	keyring openpgp.EntityList
}

// unlockKey parses the armored user key and decrypts every private part
// with passphrase.
func unlockKey(armored, passphrase string) (openpgp.EntityList, error) {
	keyring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armored))
	if err != nil {
		return nil, app.InvalidResponse("protonpass: user key", err)
	}

	for _, e := range keyring {
		if e.PrivateKey == nil {
			return nil, app.InvalidResponse("protonpass: user key has no private part", nil)
		}
		if err = decryptPrivateKey(e.PrivateKey, passphrase); err != nil {
			return nil, err
		}
		for _, sub := range e.Subkeys {
			if sub.PrivateKey == nil {
				continue
			}
			if err = decryptPrivateKey(sub.PrivateKey, passphrase); err != nil {
				return nil, err
			}
		}
	}
	return keyring, nil
}

func decryptPrivateKey(k *packet.PrivateKey, passphrase string) error {
	if err := k.Decrypt([]byte(passphrase)); err != nil {
		return app.New(app.ErrBadCredentials, "protonpass: key passphrase does not unlock the user key", err)
	}
	return nil
}

// decryptMessage opens a binary PGP message addressed to the user key.
func (s *session) decryptMessage(encoded string) ([]byte, error) {
	message, err := utils.DecodeBase64(encoded)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	md, err := openpgp.ReadMessage(bytes.NewReader(message), s.keyring, nil, nil)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(md.UnverifiedBody)
}

// latestShareKey picks the key of the highest rotation.
func latestShareKey(keys []shareKey) (shareKey, error) {
	if len(keys) == 0 {
		return shareKey{}, app.Internal("protonpass: expected at least one share key", nil)
	}
	return slices.MaxFunc(keys, func(a, b shareKey) int { return a.KeyRotation - b.KeyRotation }), nil
}

// openVaultKey decrypts the latest share key with the primary user key.
func (s *session) openVaultKey(shareID string, keys []shareKey) ([]byte, error) {
	latest, err := latestShareKey(keys)
	if err != nil {
		return nil, err
	}
	if latest.UserKeyID != s.keyID {
		return nil, app.Internal(fmt.Sprintf(
			"protonpass: share %s key %s does not match the primary user key", shareID, latest.UserKeyID), nil)
	}

	key, err := s.decryptMessage(latest.Key)
	if err != nil {
		return nil, app.Corrupted("protonpass: share "+shareID+" key", err)
	}
	return key, nil
}

// openGCM decrypts base64(iv ‖ ciphertext ‖ tag).
func openGCM(key []byte, encoded string, additionalData []byte) ([]byte, error) {
	blob, err := utils.DecodeBase64(encoded)
	if err != nil {
		return nil, err
	}
	if len(blob) < gcmIVSize {
		return nil, fmt.Errorf("%w: encrypted blob is %d bytes", crypto.ErrInvalidInputSize, len(blob))
	}
	return crypto.DecryptAES256GCM(key, blob[:gcmIVSize], blob[gcmIVSize:], additionalData)
}
