// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/provider"
	"github.com/MKhiriev/go-vault-access/internal/provider/lastpass"
	"github.com/MKhiriev/go-vault-access/internal/provider/onepassword"
	"github.com/MKhiriev/go-vault-access/internal/provider/opvault"
	"github.com/MKhiriev/go-vault-access/internal/provider/protonpass"
	"github.com/MKhiriev/go-vault-access/internal/store"
	"github.com/MKhiriev/go-vault-access/internal/utils"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

const stdoutOutput = "-"

var ErrNoProvider = errors.New("no provider configured")

// opener opens a vault with one provider. OpVault ignores opts.
type opener func(ctx context.Context, opts provider.Options, credential models.Credential, ui UI) (vault.Result, error)

type App struct {
	cfg      *config.StructuredConfig
	storages *store.Storages
	ui       UI
	log      *logger.Logger

	stdout  io.Writer
	openers map[string]opener
}

// NewApp opens the configured secure storage. Close releases it.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, ui UI, log *logger.Logger) (*App, error) {
	if cfg.App.Provider == "" {
		return nil, ErrNoProvider
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create secure storage: %w", err)
	}

	return &App{
		cfg:      cfg,
		storages: storages,
		ui:       ui,
		log:      log,
		stdout:   os.Stdout,
		openers: map[string]opener{
			config.ProviderOnePassword: func(ctx context.Context, opts provider.Options, c models.Credential, ui UI) (vault.Result, error) {
				return onepassword.Open(ctx, opts, c, ui)
			},
			config.ProviderProtonPass: func(ctx context.Context, opts provider.Options, c models.Credential, ui UI) (vault.Result, error) {
				return protonpass.Open(ctx, opts, c, ui)
			},
			config.ProviderLastPass: func(ctx context.Context, opts provider.Options, c models.Credential, ui UI) (vault.Result, error) {
				return lastpass.Open(ctx, opts, c, ui)
			},
			config.ProviderOpVault: func(ctx context.Context, opts provider.Options, c models.Credential, _ UI) (vault.Result, error) {
				return opvault.Open(ctx, cfg.App.VaultPath, c.Password, opts.Logger)
			},
		},
	}, nil
}

var _ Client = (*App)(nil)

// Run asks for the credential, opens the vault and shows or exports it.
func (a *App) Run(ctx context.Context) error {
	open, ok := a.openers[a.cfg.App.Provider]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoProvider, a.cfg.App.Provider)
	}

	credential, err := a.ui.ReadCredential(ctx, a.cfg.App.Provider, a.cfg.App.Username)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}

	transport := adapter.NewHTTPTransport(a.cfg.Adapter, a.log)
	opts := provider.NewOptions(a.cfg, transport, a.storages.SecureStorage, a.log)

	result, err := open(ctx, opts, credential, a.ui)
	if err != nil {
		return fmt.Errorf("open %s vault: %w", a.cfg.App.Provider, err)
	}

	a.log.Info().
		Str("provider", a.cfg.App.Provider).
		Int("accounts", len(result.Accounts)).
		Int("folders", len(result.Folders)).
		Int("corrupted", len(result.Failures)).
		Msg("vault opened")
	for _, f := range result.Failures {
		a.log.Warn().Err(f).Str("item", f.ItemID).Msg("item skipped")
	}

	if a.cfg.App.Output != "" {
		return a.export(result)
	}
	return a.ui.Browse(ctx, result)
}

// Close releases the secure storage.
func (a *App) Close() error {
	return a.storages.Close()
}

// exportDocument is the JSON written by export. Item errors are reduced
// to ids and messages.
type exportDocument struct {
	Accounts []models.Account `json:"accounts"`
	Folders  []models.Folder  `json:"folders,omitempty"`
	Failures []exportFailure  `json:"failures,omitempty"`
}

type exportFailure struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

func (a *App) export(result vault.Result) (err error) {
	doc := exportDocument{
		Accounts: result.Accounts,
		Folders:  result.Folders,
	}
	if doc.Accounts == nil {
		doc.Accounts = []models.Account{}
	}
	for _, f := range result.Failures {
		doc.Failures = append(doc.Failures, exportFailure{ItemID: f.ItemID, Error: f.Error()})
	}

	w := a.stdout
	if path := a.cfg.App.Output; path != stdoutOutput {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close export file: %w", cerr)
			}
		}()
		w = file
	}

	if _, err = utils.WriteJSON(w, doc); err != nil {
		return fmt.Errorf("export accounts: %w", err)
	}
	return nil
}
