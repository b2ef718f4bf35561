// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/logger"
)

// Storages holds the configured secure storage and owns its resources.
type Storages struct {
	SecureStorage SecureStorage
	closer        io.Closer
}

// NewStorages opens the backend selected by cfg.Driver. SQL backends are
// migrated before use.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Str("driver", cfg.Driver).Msg("creating secure storage...")

	switch cfg.Driver {
	case config.DriverMemory, "":
		m := NewMemoryStorage(nil)
		return &Storages{SecureStorage: m, closer: m}, nil

	case config.DriverSQLite, config.DriverPostgres:
		var (
			db  *DB
			err error
		)
		if cfg.Driver == config.DriverSQLite {
			db, err = NewConnectSQLite(ctx, cfg, logger)
		} else {
			db, err = NewConnectPostgres(ctx, cfg, logger)
		}
		if err != nil {
			return nil, err
		}

		if err = db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		s := NewSQLStorage(db, logger).(*sqlStorage)
		return &Storages{SecureStorage: s, closer: s}, nil

	case config.DriverBolt:
		b, err := NewBoltStorage(cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		return &Storages{SecureStorage: b, closer: b}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

// Close releases the backend.
func (s *Storages) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
