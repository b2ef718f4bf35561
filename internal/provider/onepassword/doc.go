// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package onepassword logs into a 1Password account and decrypts its
// vaults.
//
// A login starts a session for the device, runs SRP with a password
// derived verifier and, from then on, signs every request with a MAC and
// exchanges encrypted JSON with the server. The master key is derived
// from the password and the account key (2SKD). It opens the master
// keyset, every other keyset and finally the vault keys.
package onepassword
