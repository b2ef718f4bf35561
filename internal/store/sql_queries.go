// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const (
	storageTable     = "secure_storage"
	storageKeyColumn = "storage_key"
	storageValColumn = "value"
	storageUpdatedAt = "updated_at"
)

// upsertSuffix works for both SQLite (3.24+) and PostgreSQL.
const upsertSuffix = "ON CONFLICT (" + storageKeyColumn + ") DO UPDATE SET " +
	storageValColumn + " = excluded." + storageValColumn + ", " +
	storageUpdatedAt + " = CURRENT_TIMESTAMP"

func (db *DB) selectValueQuery(key string) (string, []any, error) {
	query, args, err := db.builder().
		Select(storageValColumn).
		From(storageTable).
		Where(sq.Eq{storageKeyColumn: key}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) upsertValueQuery(key, value string) (string, []any, error) {
	query, args, err := db.builder().
		Insert(storageTable).
		Columns(storageKeyColumn, storageValColumn).
		Values(key, value).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) deleteValueQuery(key string) (string, []any, error) {
	query, args, err := db.builder().
		Delete(storageTable).
		Where(sq.Eq{storageKeyColumn: key}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
