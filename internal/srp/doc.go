// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package srp implements the client side of the Secure Remote Password
// exchanges spoken by the supported providers.
//
// Two dialects are provided:
//
//   - GenerateProofs: the Proton flavour, little-endian 2048-bit integers,
//     a 2048-bit expanded SHA-512 hash and a bcrypt based password hash whose
//     salt folding depends on Version.
//   - Exchange: the 1Password SRP-6a flavour over the RFC 5054 4096-bit group
//     with SHA-256 over lower-case hex strings.
//
// Randomness is always taken from a caller supplied io.Reader so that tests
// can replay a fixed ephemeral.
package srp
