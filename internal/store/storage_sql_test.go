// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/migrations"
)

func newTestSQLStorage(t *testing.T, placeholder sq.PlaceholderFormat) (*sqlStorage, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db := &DB{
		DB:                 conn,
		dialect:            migrations.DialectPostgres,
		placeholder:        placeholder,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}

	s := NewSQLStorage(db, logger.Nop()).(*sqlStorage)
	s.backoff = func() retry.Backoff {
		return retry.WithMaxRetries(2, retry.NewConstant(time.Millisecond))
	}
	return s, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

// ── LoadString ───────────────────────────────────────────────────────────────

func TestSQLStorage_LoadString_Found(t *testing.T) {
	s, mock := newTestSQLStorage(t, sq.Dollar)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM secure_storage WHERE storage_key = $1")).
		WithArgs("remember-me-token").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok"))

	v, err := s.LoadString(context.Background(), "remember-me-token")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_LoadString_MissingIsEmpty(t *testing.T) {
	s, mock := newTestSQLStorage(t, sq.Question)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM secure_storage WHERE storage_key = ?")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, err := s.LoadString(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_LoadString_EmptyKey(t *testing.T) {
	s, _ := newTestSQLStorage(t, sq.Dollar)

	_, err := s.LoadString(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestSQLStorage_LoadString_NonRetryableError(t *testing.T) {
	s, mock := newTestSQLStorage(t, sq.Dollar)

	mock.ExpectQuery("SELECT value FROM secure_storage").
		WillReturnError(pgError(pgerrcode.UndefinedTable))

	_, err := s.LoadString(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScanningRow)

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, pgerrcode.UndefinedTable, pgErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── StoreString ──────────────────────────────────────────────────────────────

func TestSQLStorage_StoreString_Upsert(t *testing.T) {
	s, mock := newTestSQLStorage(t, sq.Dollar)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO secure_storage (storage_key,value) VALUES ($1,$2) ON CONFLICT (storage_key) DO UPDATE")).
		WithArgs("k", "v").
		WillReturnResult(sqlmock.NewResult(0, 1))

	value := "v"
	require.NoError(t, s.StoreString(context.Background(), "k", &value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_StoreString_NilDeletes(t *testing.T) {
	s, mock := newTestSQLStorage(t, sq.Question)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM secure_storage WHERE storage_key = ?")).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.StoreString(context.Background(), "k", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_StoreString_RetriesTransientError(t *testing.T) {
	s, mock := newTestSQLStorage(t, sq.Dollar)

	mock.ExpectExec("INSERT INTO secure_storage").
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectExec("INSERT INTO secure_storage").
		WillReturnResult(sqlmock.NewResult(0, 1))

	value := "v"
	require.NoError(t, s.StoreString(context.Background(), "k", &value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_StoreString_GivesUpAfterRetries(t *testing.T) {
	s, mock := newTestSQLStorage(t, sq.Dollar)

	for range 3 {
		mock.ExpectExec("INSERT INTO secure_storage").
			WillReturnError(pgError(pgerrcode.DeadlockDetected))
	}

	value := "v"
	err := s.StoreString(context.Background(), "k", &value)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_StoreString_UniqueViolationIsNotRetried(t *testing.T) {
	s, mock := newTestSQLStorage(t, sq.Dollar)

	mock.ExpectExec("INSERT INTO secure_storage").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	value := "v"
	err := s.StoreString(context.Background(), "k", &value)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── ClassifyPgError ──────────────────────────────────────────────────────────

func TestClassifyPgError(t *testing.T) {
	tests := []struct {
		code string
		want ErrorClassification
	}{
		{pgerrcode.ConnectionFailure, Retryable},
		{pgerrcode.SerializationFailure, Retryable},
		{pgerrcode.DeadlockDetected, Retryable},
		{pgerrcode.CannotConnectNow, Retryable},
		{pgerrcode.UniqueViolation, NonRetryable},
		{pgerrcode.SyntaxError, NonRetryable},
		{pgerrcode.DataException, NonRetryable},
		{"XX000", NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPgError(&pgconn.PgError{Code: tt.code}))
		})
	}
}

func TestPostgresErrorClassifier_NonPgError(t *testing.T) {
	c := NewPostgresErrorClassifier()
	assert.Equal(t, NonRetryable, c.Classify(errors.New("boom")))
	assert.Equal(t, NonRetryable, c.Classify(nil))
	assert.Equal(t, NonRetryable, sqliteErrorClassifier{}.Classify(errors.New("busy")))
}
