// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Mode is the AES block cipher mode for the non-authenticated functions.
type Mode int

const (
	ECB Mode = iota + 1
	CBC
)

// Padding is the block padding scheme for ECB and CBC.
type Padding int

const (
	PaddingNone Padding = iota
	PaddingPKCS7
)

const aes256KeySize = 32

// EncryptAES256 encrypts plaintext with a 32 byte key. iv is ignored in ECB
// mode and must be one block long in CBC mode.
func EncryptAES256(mode Mode, padding Padding, key, iv, plaintext []byte) ([]byte, error) {
	block, err := newAES256(key)
	if err != nil {
		return nil, err
	}

	data := plaintext
	switch padding {
	case PaddingPKCS7:
		data = pkcs7Pad(plaintext, aes.BlockSize)
	case PaddingNone:
		if len(data)%aes.BlockSize != 0 {
			return nil, ErrInvalidInputSize
		}
	default:
		return nil, fmt.Errorf("%w: padding %d", ErrInvalidParameters, padding)
	}

	out := make([]byte, len(data))
	switch mode {
	case ECB:
		for i := 0; i < len(data); i += aes.BlockSize {
			block.Encrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
		}
	case CBC:
		if len(iv) != aes.BlockSize {
			return nil, ErrInvalidIVSize
		}
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)
	default:
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidParameters, mode)
	}

	return out, nil
}

// DecryptAES256 is the inverse of EncryptAES256.
func DecryptAES256(mode Mode, padding Padding, key, iv, ciphertext []byte) ([]byte, error) {
	block, err := newAES256(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrInvalidInputSize
	}

	out := make([]byte, len(ciphertext))
	switch mode {
	case ECB:
		for i := 0; i < len(ciphertext); i += aes.BlockSize {
			block.Decrypt(out[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
		}
	case CBC:
		if len(iv) != aes.BlockSize {
			return nil, ErrInvalidIVSize
		}
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	default:
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidParameters, mode)
	}

	switch padding {
	case PaddingPKCS7:
		return pkcs7Unpad(out, aes.BlockSize)
	case PaddingNone:
		return out, nil
	default:
		return nil, fmt.Errorf("%w: padding %d", ErrInvalidParameters, padding)
	}
}

// EncryptAES256GCM seals plaintext and appends the 16 byte tag.
func EncryptAES256GCM(key, iv, plaintext, additionalData []byte) ([]byte, error) {
	aead, err := newGCM(key, iv)
	if err != nil {
		return nil, err
	}

	return aead.Seal(nil, iv, plaintext, additionalData), nil
}

// DecryptAES256GCM opens ciphertext||tag. On a tag mismatch nothing but
// ErrAuthentication is returned.
func DecryptAES256GCM(key, iv, ciphertext, additionalData []byte) ([]byte, error) {
	aead, err := newGCM(key, iv)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aead.Overhead() {
		return nil, ErrAuthentication
	}

	plaintext, err := aead.Open(nil, iv, ciphertext, additionalData)
	if err != nil {
		return nil, ErrAuthentication
	}

	return plaintext, nil
}

func newAES256(key []byte) (cipher.Block, error) {
	if len(key) != aes256KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), aes256KeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeySize, err)
	}

	return block, nil
}

func newGCM(key, iv []byte) (cipher.AEAD, error) {
	block, err := newAES256(key)
	if err != nil {
		return nil, err
	}

	if len(iv) == 0 {
		return nil, ErrInvalidIVSize
	}

	aead, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIVSize, err)
	}

	return aead, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrInvalidPadding
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}

	return data[:len(data)-n], nil
}
