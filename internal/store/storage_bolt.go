// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/MKhiriev/go-vault-access/internal/logger"
)

var boltBucket = []byte("secure_storage")

// boltStorage keeps every value in a single bucket of a bbolt file.
type boltStorage struct {
	db     *bolt.DB
	logger *logger.Logger
}

// NewBoltStorage opens (creating if needed) the bbolt file at path.
func NewBoltStorage(path string, logger *logger.Logger) (*boltStorage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		logger.Err(err).Str("func", "NewBoltStorage").Msg("error opening bolt file")
		return nil, fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create bucket: %w", ErrOpeningDatabase, err)
	}

	return &boltStorage{db: db, logger: logger}, nil
}

func (b *boltStorage) LoadString(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value string
	err := b.db.View(func(tx *bolt.Tx) error {
		// bytes returned by Get are only valid inside the transaction
		if v := tx.Bucket(boltBucket).Get([]byte(key)); v != nil {
			value = string(v)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, nil
}

func (b *boltStorage) StoreString(ctx context.Context, key string, value *string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if value == nil {
			return bucket.Delete([]byte(key))
		}
		return bucket.Put([]byte(key), []byte(*value))
	})
	if err != nil {
		b.logger.Err(err).Str("func", "*boltStorage.StoreString").Msg("error storing value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (b *boltStorage) Close() error {
	return b.db.Close()
}
