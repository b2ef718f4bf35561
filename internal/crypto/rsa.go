// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
)

// RSAPadding selects the RSA decryption scheme.
type RSAPadding int

const (
	RSAPKCS1 RSAPadding = iota + 1
	RSAOAEPSHA1
	RSAOAEPSHA256
)

// DecryptRSA decrypts ciphertext with key using the given padding.
func DecryptRSA(padding RSAPadding, key *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	if key == nil {
		return nil, ErrInvalidRSAKey
	}

	var (
		plaintext []byte
		err       error
	)

	switch padding {
	case RSAPKCS1:
		plaintext, err = rsa.DecryptPKCS1v15(nil, key, ciphertext)
	case RSAOAEPSHA1:
		plaintext, err = rsa.DecryptOAEP(sha1.New(), nil, key, ciphertext, nil)
	case RSAOAEPSHA256:
		plaintext, err = rsa.DecryptOAEP(sha256.New(), nil, key, ciphertext, nil)
	default:
		return nil, fmt.Errorf("%w: rsa padding %d", ErrInvalidParameters, padding)
	}

	if err != nil {
		return nil, ErrRSADecryption
	}

	return plaintext, nil
}

// ParseRSAPrivateKey accepts a DER encoded key in PKCS#8 or PKCS#1 form.
func ParseRSAPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: pkcs8 key is not rsa", ErrInvalidRSAKey)
		}
		return rsaKey, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRSAKey, err)
	}

	return key, nil
}
