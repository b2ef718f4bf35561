// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// HashFunc selects the inner hash of HMAC, PBKDF2 and HKDF.
type HashFunc int

const (
	SHA1 HashFunc = iota + 1
	SHA256
	SHA512
)

func (h HashFunc) new() (func() hash.Hash, error) {
	switch h {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, ErrUnsupportedHash
	}
}

func (h HashFunc) String() string {
	switch h {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	case SHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

func MD5(data ...[]byte) []byte {
	return sum(md5.New(), data)
}

func SHA1Sum(data ...[]byte) []byte {
	return sum(sha1.New(), data)
}

func SHA256Sum(data ...[]byte) []byte {
	return sum(sha256.New(), data)
}

func SHA512Sum(data ...[]byte) []byte {
	return sum(sha512.New(), data)
}

func sum(h hash.Hash, data [][]byte) []byte {
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// HMAC computes the HMAC of message under key with the given hash.
func HMAC(fn HashFunc, key, message []byte) ([]byte, error) {
	newHash, err := fn.new()
	if err != nil {
		return nil, err
	}

	mac := hmac.New(newHash, key)
	mac.Write(message)
	return mac.Sum(nil), nil
}

// HMACSHA256 is HMAC with SHA-256, the variant every tag check uses.
func HMACSHA256(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}
