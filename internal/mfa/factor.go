// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mfa

import (
	"slices"
)

// Factor names a second factor as a server declares it.
type Factor string

const (
	FactorTOTP       Factor = "totp"
	FactorDuo        Factor = "duo"
	FactorWebAuthn   Factor = "webauthn"
	FactorRememberMe Factor = "remember-me"
	FactorOutOfBand  Factor = "out-of-band"
	FactorFIDO2      Factor = "fido2"
)

// Priority is an immutable ordering of factors, most preferred first.
type Priority []Factor

var (
	// onePasswordWindows prefers a security key when the platform can talk
	// to one.
	onePasswordWindows = Priority{FactorWebAuthn, FactorDuo, FactorTOTP}
	onePasswordOther   = Priority{FactorDuo, FactorTOTP}

	protonPass = Priority{FactorTOTP, FactorFIDO2}
)

// OnePasswordPriority returns the selection order for the given GOOS.
func OnePasswordPriority(goos string) Priority {
	if goos == "windows" {
		return slices.Clone(onePasswordWindows)
	}
	return slices.Clone(onePasswordOther)
}

// ProtonPassPriority returns the selection order of Proton Pass. FIDO2 is
// listed so that an account with only a security key is recognised and
// rejected as unsupported instead of as unknown.
func ProtonPassPriority() Priority {
	return slices.Clone(protonPass)
}

// Select picks the most preferred factor among offered. Duplicates in
// offered and factors missing from the table are ignored. The result
// never depends on the order of offered.
func (p Priority) Select(offered []Factor) (Factor, error) {
	for _, f := range p {
		if slices.Contains(offered, f) {
			return f, nil
		}
	}
	return "", ErrNoSupportedFactor
}

// Offers reports whether f is among offered.
func Offers(offered []Factor, f Factor) bool {
	return slices.Contains(offered, f)
}
