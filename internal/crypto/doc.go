// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds the stateless primitives every provider adapter is
// built from: hashes, HMAC, PBKDF2, HKDF, AES in ECB/CBC/GCM, RSA decryption,
// bcrypt with an explicit salt, CRC32, constant-time comparison and secure
// random bytes.
//
// Every function is pure over its inputs. Wrong key or IV sizes, bad padding
// and failed authentication are reported as errors wrapping [ErrCrypto];
// nothing here panics on malformed input.
package crypto
