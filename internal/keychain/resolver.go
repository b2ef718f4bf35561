// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keychain

import (
	"fmt"
	"sort"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/models"
)

// KDFParams are the server supplied parameters of the root key derivation.
type KDFParams struct {
	Algorithm  string
	Salt       []byte
	Iterations int
}

// RootDeriver turns credentials into the root key. Each provider supplies
// its own scheme (PBKDF2, 2SKD, bcrypt).
type RootDeriver func(params KDFParams, credential models.Credential) (*Key, error)

// DeriveRoot validates params and runs derive. The returned key always has
// the MasterKeyID id unless the deriver set another one.
func DeriveRoot(derive RootDeriver, params KDFParams, credential models.Credential) (*Key, error) {
	if params.Iterations < 1 {
		return nil, fmt.Errorf("%w: iterations=%d", ErrInvalidKDFParams, params.Iterations)
	}

	root, err := derive(params, credential)
	if err != nil {
		return nil, fmt.Errorf("keychain: derive root key (%s): %w", params.Algorithm, err)
	}

	if root.ID == "" {
		root.ID = MasterKeyID
	}

	return root, nil
}

// ResolveAll decrypts every record reachable from root and returns the
// resulting Keychain, which also holds root. Records sharing an id are
// collapsed to the one with the highest serial first. Records that are not
// reachable from root are ignored.
func ResolveAll(records []Record, root *Key, decrypt Decrypter) (*Keychain, error) {
	kc := New()
	if err := kc.Add(root); err != nil {
		return nil, err
	}

	children := make(map[string][]Record)
	for _, r := range latestBySerial(records) {
		children[r.EncryptedBy] = append(children[r.EncryptedBy], r)
	}

	// once a child of root opens, root is known good and later failures
	// under it are corruption
	rootProven := false

	queue := append([]Record(nil), children[root.ID]...)
	for len(queue) > 0 {
		record := queue[0]
		queue = queue[1:]

		parent, ok := kc.Get(record.EncryptedBy)
		if !ok {
			return nil, app.Internal(
				fmt.Sprintf("key %q is encrypted by unresolved key %q", record.ID, record.EncryptedBy), nil)
		}

		key, err := decrypt(parent, record)
		if err != nil {
			return nil, &StepError{
				KeyID:       record.ID,
				EncryptedBy: record.EncryptedBy,
				Root:        record.EncryptedBy == root.ID && !rootProven,
				Err:         err,
			}
		}

		if key.ID == "" {
			key.ID = record.ID
		}
		if record.EncryptedBy == root.ID {
			rootProven = true
		}

		if err = kc.Add(key); err != nil {
			return nil, err
		}

		queue = append(queue, children[record.ID]...)
	}

	return kc, nil
}

func latestBySerial(records []Record) []Record {
	latest := make(map[string]Record, len(records))
	for _, r := range records {
		if current, ok := latest[r.ID]; !ok || r.Serial > current.Serial {
			latest[r.ID] = r
		}
	}

	out := make([]Record, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}

	// deterministic walk order
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
