// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "crypto/subtle"

// Equal compares two tags in constant time. Slices of different length are
// never equal; the length itself is not secret.
func Equal(a, b []byte) bool {
	equal, _ := compare(a, b)
	return equal
}

// compare returns the result and the number of bytes it looked at, which
// is always the full length for equal-length inputs.
func compare(a, b []byte) (bool, int) {
	if len(a) != len(b) {
		return false, 0
	}

	var diff byte
	scanned := 0
	for i := range a {
		diff |= a[i] ^ b[i]
		scanned++
	}

	return subtle.ConstantTimeByteEq(diff, 0) == 1, scanned
}
