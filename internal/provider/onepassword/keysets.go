// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/utils"
	"github.com/MKhiriev/go-vault-access/models"
)

// readACL is the vault access bit that allows reading items.
const readACL = 32

func (k keyset) encryptedBy() string {
	if k.EncryptedBy != "" {
		return k.EncryptedBy
	}
	return k.EncSymKey.KeyID
}

// masterKeyset is the keyset encrypted with the master key that has the
// highest serial number.
func masterKeyset(keysets []keyset) (keyset, bool) {
	var (
		master keyset
		found  bool
	)
	for _, k := range keysets {
		if k.encryptedBy() != keychain.MasterKeyID {
			continue
		}
		if !found || k.Serial > master.Serial {
			master, found = k, true
		}
	}
	return master, found
}

// resolveKeysets derives the master key and opens every keyset reachable
// from it. Only the current master keyset takes part, older ones were
// encrypted with a previous password.
func resolveKeysets(keysets []keyset, credential models.Credential, ak accountKey) (*keychain.Keychain, error) {
	master, ok := masterKeyset(keysets)
	if !ok {
		return nil, app.InvalidResponse("onepassword: master keyset not found", nil)
	}

	salt, err := utils.DecodeBase64(master.EncSymKey.Salt)
	if err != nil {
		return nil, app.InvalidResponse("onepassword: master keyset salt", err)
	}

	root, err := keychain.DeriveRoot(
		func(params keychain.KDFParams, credential models.Credential) (*keychain.Key, error) {
			key, err := deriveTwoSecretKey(params.Algorithm, params.Algorithm, params.Salt, params.Iterations,
				credential.Username, credential.Password, ak)
			if err != nil {
				return nil, err
			}
			return &keychain.Key{ID: keychain.MasterKeyID, Encryption: key}, nil
		},
		keychain.KDFParams{
			Algorithm:  master.EncSymKey.Alg,
			Salt:       salt,
			Iterations: master.EncSymKey.Iterations,
		},
		credential,
	)
	if err != nil {
		return nil, err
	}

	records := make([]keychain.Record, 0, len(keysets))
	for _, k := range keysets {
		by := k.encryptedBy()
		if by == keychain.MasterKeyID && k.UUID != master.UUID {
			continue
		}
		records = append(records, keychain.Record{ID: k.UUID, EncryptedBy: by, Serial: k.Serial, Blob: k})
	}

	keys, err := keychain.ResolveAll(records, root, openKeyset)
	if err != nil {
		return nil, mapKeyError(err)
	}
	return keys, nil
}

// openKeyset decrypts the symmetric key of a keyset with its parent and
// the private key with that symmetric key.
func openKeyset(parent *keychain.Key, record keychain.Record) (*keychain.Key, error) {
	ks, ok := record.Blob.(keyset)
	if !ok {
		return nil, fmt.Errorf("unexpected keyset record %T", record.Blob)
	}

	plaintext, err := ks.EncSymKey.decrypt(parent)
	if err != nil {
		return nil, err
	}
	symmetric, err := parseSymmetricKey(plaintext)
	if err != nil {
		return nil, err
	}

	key := &keychain.Key{ID: ks.UUID, Encryption: symmetric}
	if ks.EncPriKey == nil {
		return key, nil
	}

	if plaintext, err = ks.EncPriKey.decrypt(key); err != nil {
		return nil, err
	}
	k, err := parseJWK(plaintext)
	if err != nil {
		return nil, err
	}
	if key.Private, err = k.private(); err != nil {
		return nil, err
	}

	return key, nil
}

func parseSymmetricKey(plaintext []byte) ([]byte, error) {
	k, err := parseJWK(plaintext)
	if err != nil {
		return nil, err
	}
	return k.symmetric()
}

// readableAccess returns the first access entry that grants reading and
// whose vault key the keychain can open.
func readableAccess(access []vaultAccess, keys *keychain.Keychain) (vaultAccess, bool) {
	for _, a := range access {
		if a.ACL&readACL == 0 {
			continue
		}
		if keys.CanDecrypt(keychain.Record{EncryptedBy: a.EncVaultKey.KeyID}) {
			return a, true
		}
	}
	return vaultAccess{}, false
}

// openVaultKey decrypts the vault key and adds it to keys. Items and
// attributes name it by the kid of the key itself.
func openVaultKey(v vaultInfo, access vaultAccess, keys *keychain.Keychain) (*keychain.Key, error) {
	plaintext, err := keys.Decrypt(access.EncVaultKey.KeyID, access.EncVaultKey.decrypt)
	if err != nil {
		return nil, app.Corrupted("onepassword: vault "+v.UUID+" key", err)
	}

	k, err := parseJWK(plaintext)
	if err != nil {
		return nil, app.Corrupted("onepassword: vault "+v.UUID+" key", err)
	}
	symmetric, err := k.symmetric()
	if err != nil {
		return nil, app.Corrupted("onepassword: vault "+v.UUID+" key", err)
	}

	id := k.KeyID
	if id == "" {
		id = v.UUID
	}

	key := &keychain.Key{ID: id, Encryption: symmetric}
	if err = keys.Add(key); err != nil {
		return nil, app.Internal("onepassword: vault "+v.UUID+" key", err)
	}
	return key, nil
}
