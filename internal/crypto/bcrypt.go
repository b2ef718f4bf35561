// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/blowfish"
)

const (
	bcryptSaltLen    = 16
	bcryptMaxKeyLen  = 72
	bcryptMinCost    = 4
	bcryptMaxCost    = 31
	bcryptHashPrefix = "$2y$"
)

var (
	bcryptMagic = []byte("OrpheanBeholderScryDoubt")

	// BcryptEncoding is the base64 dialect bcrypt uses for salt and hash.
	BcryptEncoding = base64.NewEncoding("./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789").
			WithPadding(base64.NoPadding)
)

// Bcrypt hashes password with an explicit 16 byte salt and returns the
// modular crypt string "$2y$<cost>$<22 salt chars><31 hash chars>".
// golang.org/x/crypto/bcrypt always generates its own salt, which does not
// work for protocols where the server dictates the salt.
func Bcrypt(password, salt []byte, cost int) (string, error) {
	if len(salt) != bcryptSaltLen {
		return "", fmt.Errorf("%w: bcrypt salt must be %d bytes", ErrInvalidParameters, bcryptSaltLen)
	}
	if cost < bcryptMinCost || cost > bcryptMaxCost {
		return "", fmt.Errorf("%w: bcrypt cost %d", ErrInvalidParameters, cost)
	}

	key := append([]byte(nil), password...)
	key = append(key, 0)
	if len(key) > bcryptMaxKeyLen {
		key = key[:bcryptMaxKeyLen]
	}

	c, err := blowfish.NewSaltedCipher(key, salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	rounds := uint64(1) << uint(cost)
	for i := uint64(0); i < rounds; i++ {
		blowfish.ExpandKey(key, c)
		blowfish.ExpandKey(salt, c)
	}

	data := append([]byte(nil), bcryptMagic...)
	for i := 0; i < len(data); i += 8 {
		for j := 0; j < 64; j++ {
			c.Encrypt(data[i:i+8], data[i:i+8])
		}
	}

	return fmt.Sprintf("%s%02d$%s%s",
		bcryptHashPrefix,
		cost,
		BcryptEncoding.EncodeToString(salt),
		BcryptEncoding.EncodeToString(data[:23]),
	), nil
}
