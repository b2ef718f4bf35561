// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeBase64 accepts standard and URL-safe base64, with or without
// padding. Providers mix all four.
func DecodeBase64(s string) ([]byte, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(s), "=")

	enc := base64.RawStdEncoding
	if strings.ContainsAny(trimmed, "-_") {
		enc = base64.RawURLEncoding
	}

	b, err := enc.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return b, nil
}

// EncodeBase64 is padded standard base64.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// EncodeBase64URL is unpadded URL-safe base64.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeHex decodes hex in either case.
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return b, nil
}
