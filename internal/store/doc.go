// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the secure storage boundary: a small string
// key/value store in which provider clients keep remember-me tokens,
// session ids and device ids between runs.
//
// Four backends are available and selected by config.Storage.Driver:
//   - memory: process local map, the default
//   - sqlite: a file database through mattn/go-sqlite3
//   - postgres: a server database through the pgx stdlib driver
//   - bolt: a single bbolt file
//
// The SQL backends share one implementation built on squirrel queries and
// goose migrations; they only differ in placeholder format and error
// classification.
package store
