// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// RandomBytes reads n bytes from the OS CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	return ReadRandom(rand.Reader, n)
}

// ReadRandom reads n bytes from r. Tests pass a deterministic reader.
func ReadRandom(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSourceFailed, err)
	}
	return b, nil
}
