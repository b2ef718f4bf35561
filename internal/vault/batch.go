// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/models"
)

// Result is what survived decryption plus the items that did not.
// Folders is filled by providers that have them.
type Result struct {
	Accounts []models.Account
	Folders  []models.Folder
	Failures []*ItemError
}

// Err joins all failures, nil for a clean result.
func (r Result) Err() error {
	return JoinItemErrors(r.Failures)
}

// Merge appends other to r.
func (r *Result) Merge(other Result) {
	r.Accounts = append(r.Accounts, other.Accounts...)
	r.Folders = append(r.Folders, other.Folders...)
	r.Failures = append(r.Failures, other.Failures...)
}

// DecryptBatch decrypts items in order. Deleted and unsupported items are
// filtered out before decryption.
func DecryptBatch(items []Item, decryptor ItemDecryptor) ([]models.Account, []*ItemError) {
	accounts := make([]models.Account, 0, len(items))
	var failures []*ItemError

	for _, item := range items {
		if item.Deleted || !decryptor.Supports(item) {
			continue
		}

		account, err := decryptor.Decrypt(item)
		if errors.Is(err, ErrSkip) {
			continue
		}
		if err != nil {
			failures = append(failures, &ItemError{ItemID: item.ID, Err: err})
			continue
		}

		accounts = append(accounts, account)
	}

	return accounts, failures
}

// Batch is one page of items. Next is the marker to request the following
// page with; an empty Next or Complete ends the stream.
type Batch struct {
	Items    []Item
	Next     string
	Complete bool
}

// Source fetches the batch that starts at marker. The first call gets an
// empty marker.
type Source func(ctx context.Context, marker string) (Batch, error)

// Stream pulls batches from source and decrypts each of them as it
// arrives. A marker the server already returned once fails with
// ErrMarkerRepeated.
func Stream(ctx context.Context, source Source, decryptor ItemDecryptor) (Result, error) {
	log := logger.FromContext(ctx)

	var (
		result Result
		marker string
		seen   = make(map[string]struct{})
	)

	for batches := 1; ; batches++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		batch, err := source(ctx, marker)
		if err != nil {
			return Result{}, err
		}

		accounts, failures := DecryptBatch(batch.Items, decryptor)
		result.Merge(Result{Accounts: accounts, Failures: failures})

		log.Debug().
			Int("batch", batches).
			Int("items", len(batch.Items)).
			Int("accounts", len(accounts)).
			Int("failures", len(failures)).
			Msg("vault batch decrypted")

		if batch.Complete || batch.Next == "" {
			return result, nil
		}

		if _, ok := seen[batch.Next]; ok || batch.Next == marker {
			return Result{}, ErrMarkerRepeated
		}
		seen[batch.Next] = struct{}{}
		marker = batch.Next
	}
}
