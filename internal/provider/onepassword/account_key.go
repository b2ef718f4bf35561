// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/crypto"
)

// accountKey is the parsed secret key, e.g.
// A3-ASWWYB-798JRY-LJVD4-23DC2-86TVM-H43EB.
type accountKey struct {
	Format string
	UUID   string
	Key    string
}

func parseAccountKey(s string) (accountKey, error) {
	k := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))

	switch {
	case strings.HasPrefix(k, "A3") && len(k) == 34,
		strings.HasPrefix(k, "A2") && len(k) == 33:
		return accountKey{Format: k[:2], UUID: k[2:8], Key: k[8:]}, nil
	}

	return accountKey{}, ErrMalformedAccountKey
}

func (a accountKey) hash() ([]byte, error) {
	return crypto.HKDF(crypto.SHA256, []byte(a.Key), []byte(a.UUID), []byte(a.Format), keySize)
}

// combine mixes the account key into a password derived key.
func (a accountKey) combine(k []byte) ([]byte, error) {
	h, err := a.hash()
	if err != nil {
		return nil, err
	}
	if len(h) != len(k) {
		return nil, errBadKeySize
	}

	out := make([]byte, len(k))
	for i := range k {
		out[i] = k[i] ^ h[i]
	}
	return out, nil
}
