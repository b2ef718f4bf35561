// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package protonpass logs into Proton Pass and decrypts its vaults.
//
// Sessions are persisted in the secure storage and reused until the server
// reports them expired; a refresh token is tried before a full SRP login.
// Every vault is a share whose key is PGP encrypted to the primary user
// key. The share key opens the vault content and the item keys, which in
// turn open the protobuf encoded item content.
package protonpass
