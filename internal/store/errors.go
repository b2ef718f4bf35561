// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by the storage backends. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrUnknownDriver is returned by NewStorages for an unsupported
	// config.Storage.Driver.
	ErrUnknownDriver = errors.New("unknown storage driver")

	// ErrEmptyKey is returned when a key is empty.
	ErrEmptyKey = errors.New("storage key is empty")

	// ErrStorageClosed is returned by the memory backend after Close.
	ErrStorageClosed = errors.New("storage is closed")
)

// Low-level database operation errors. These wrap the driver error.
var (
	// ErrBuildingSQLQuery is returned when squirrel fails to render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when a result row cannot be scanned.
	ErrScanningRow = errors.New("failed to scan storage row")

	// ErrOpeningDatabase is returned when the database cannot be opened or
	// pinged.
	ErrOpeningDatabase = errors.New("error opening database")
)
