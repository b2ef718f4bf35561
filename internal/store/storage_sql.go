// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-vault-access/internal/logger"
)

const (
	sqlMaxRetries   = 2
	sqlRetryBackoff = 50 * time.Millisecond
)

// sqlStorage is the [SecureStorage] over the secure_storage table. Statements
// failing with an error the driver classifies as Retryable are attempted
// again with exponential backoff.
type sqlStorage struct {
	db      *DB
	backoff func() retry.Backoff
	logger  *logger.Logger
}

// NewSQLStorage wraps an open and migrated DB.
func NewSQLStorage(db *DB, logger *logger.Logger) SecureStorage {
	logger.Debug().Str("dialect", db.dialect).Msg("creating sql secure storage")
	return &sqlStorage{
		db: db,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(sqlMaxRetries, retry.NewExponential(sqlRetryBackoff))
		},
		logger: logger,
	}
}

func (s *sqlStorage) LoadString(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	query, args, err := s.db.selectValueQuery(key)
	if err != nil {
		return "", err
	}

	var value string
	err = s.withRetry(ctx, func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx, query, args...).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			value = ""
			return nil
		}
		return err
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*sqlStorage.LoadString").Msg("error loading value")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return value, nil
}

func (s *sqlStorage) StoreString(ctx context.Context, key string, value *string) error {
	if key == "" {
		return ErrEmptyKey
	}

	var (
		query string
		args  []any
		err   error
	)
	if value == nil {
		query, args, err = s.db.deleteValueQuery(key)
	} else {
		query, args, err = s.db.upsertValueQuery(key, *value)
	}
	if err != nil {
		return err
	}

	err = s.withRetry(ctx, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*sqlStorage.StoreString").Msg("error storing value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqlStorage) withRetry(ctx context.Context, op func(context.Context) error) error {
	return retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && s.db.errorClassificator.Classify(err) == Retryable {
			s.logger.Warn().Err(err).Msg("retrying sql statement")
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}
