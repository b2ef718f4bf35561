// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 derives keyLen bytes from password and salt. iterations is used
// as given: 1 means exactly one round of the PRF.
func PBKDF2(fn HashFunc, password, salt []byte, iterations, keyLen int) ([]byte, error) {
	if iterations < 1 || keyLen < 1 {
		return nil, fmt.Errorf("%w: pbkdf2 iterations=%d length=%d", ErrInvalidParameters, iterations, keyLen)
	}

	newHash, err := fn.new()
	if err != nil {
		return nil, err
	}

	return pbkdf2.Key(password, salt, iterations, keyLen, newHash), nil
}

// HKDF runs extract-and-expand and returns length bytes of output keying
// material.
func HKDF(fn HashFunc, secret, salt, info []byte, length int) ([]byte, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: hkdf length=%d", ErrInvalidParameters, length)
	}

	newHash, err := fn.new()
	if err != nil {
		return nil, err
	}

	out := make([]byte, length)
	if _, err = io.ReadFull(hkdf.New(newHash, secret, salt, info), out); err != nil {
		return nil, fmt.Errorf("%w: hkdf: %v", ErrInvalidParameters, err)
	}

	return out, nil
}
