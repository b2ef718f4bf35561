// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"strings"

	"github.com/google/uuid"
)

// UUIDGenerator produces identifiers for devices and trusted clients.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a time-ordered v7 UUID, falling back to v4.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// GenerateCompact returns a lower-case v4 UUID without dashes, the form
// 1Password expects for device ids.
func (g *UUIDGenerator) GenerateCompact() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
