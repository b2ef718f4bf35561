// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package keychain resolves a provider's layered key hierarchy.
//
// Every provider stores some keys encrypted by other keys, rooted at a key
// derived from the master password. DeriveRoot produces that root through a
// provider supplied RootDeriver. ResolveAll then walks the encryptor graph
// breadth first, decrypting each Record with its already resolved parent and
// collecting the results in a Keychain that downstream item decryption
// reads from.
package keychain
