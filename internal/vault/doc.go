// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault turns batches of encrypted provider items into accounts.
//
// Providers describe their items with Item and supply an ItemDecryptor that
// knows the provider's key layout and integrity checks. DecryptBatch works
// on one batch, Stream pulls batches from a Source until the continuation
// marker runs out. Items that fail verification never become accounts: they
// are reported one by one as ItemError and the rest of the batch survives.
package vault
