// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package opvault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/crypto"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/utils"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

const (
	masterKeyID   = "master"
	overviewKeyID = "overview"

	categoryLogin = "001"
)

// Open reads the vault at path and decrypts every login item with
// password. Corrupted items are left out of Accounts and listed in
// Failures.
func Open(ctx context.Context, path, password string, log *logger.Logger) (vault.Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithProvider(config.ProviderOpVault)

	p, err := loadProfile(path)
	if err != nil {
		return vault.Result{}, err
	}
	encryptedFolders, err := loadFolders(path)
	if err != nil {
		return vault.Result{}, err
	}
	items, err := loadItems(path)
	if err != nil {
		return vault.Result{}, err
	}

	if err = ctx.Err(); err != nil {
		return vault.Result{}, err
	}

	keys, err := resolveKeys(p, password)
	if err != nil {
		return vault.Result{}, err
	}

	overview, _ := keys.Get(overviewKeyID)
	master, _ := keys.Get(masterKeyID)

	tree, err := decryptFolders(encryptedFolders, overview)
	if err != nil {
		return vault.Result{}, err
	}

	batch := make([]vault.Item, 0, len(items))
	for _, item := range items {
		batch = append(batch, vault.Item{
			ID:      item.str("uuid"),
			Type:    item.str("category"),
			Deleted: item.boolean("trashed"),
			Raw:     item,
		})
	}

	decryptor := vault.Decryptor{
		Filter: vault.TypeFilter(categoryLogin),
		Open: func(item vault.Item) (models.Account, error) {
			return decryptAccount(item.Raw.(rawItem), master, overview, tree)
		},
	}

	accounts, failures := vault.DecryptBatch(batch, decryptor)

	log.Info().
		Int("items", len(items)).
		Int("accounts", len(accounts)).
		Int("folders", tree.Len()).
		Int("corrupted", len(failures)).
		Msg("opvault opened")

	return vault.Result{Accounts: accounts, Folders: tree.Folders(), Failures: failures}, nil
}

// resolveKeys derives the key encryption key and opens the master and
// overview keys with it.
func resolveKeys(p profile, password string) (*keychain.Keychain, error) {
	salt, err := utils.DecodeBase64(p.Salt)
	if err != nil {
		return nil, app.InvalidResponse("opvault: profile salt", err)
	}

	root, err := keychain.DeriveRoot(deriveKEK, keychain.KDFParams{
		Algorithm:  "pbkdf2-sha512",
		Salt:       salt,
		Iterations: p.Iterations,
	}, models.Credential{Password: password})
	if err != nil {
		return nil, app.InvalidResponse("opvault: derive key encryption key", err)
	}

	records := []keychain.Record{
		{ID: masterKeyID, EncryptedBy: root.ID, Blob: p.MasterKey},
		{ID: overviewKeyID, EncryptedBy: root.ID, Blob: p.OverviewKey},
	}

	keys, err := keychain.ResolveAll(records, root, func(parent *keychain.Key, record keychain.Record) (*keychain.Key, error) {
		raw, err := decryptOpdataBase64(record.Blob.(string), parent)
		if err != nil {
			return nil, err
		}
		return keyFromRaw(record.ID, raw), nil
	})
	if err != nil {
		return nil, mapKeyError(err)
	}

	return keys, nil
}

func deriveKEK(params keychain.KDFParams, credential models.Credential) (*keychain.Key, error) {
	derived, err := crypto.PBKDF2(crypto.SHA512, []byte(credential.Password), params.Salt, params.Iterations, 64)
	if err != nil {
		return nil, err
	}
	return &keychain.Key{ID: keychain.MasterKeyID, Encryption: derived[:32], MAC: derived[32:]}, nil
}

// decryptFolders drops deleted and smart folders and builds the tree.
func decryptFolders(encrypted []encryptedFolder, overview *keychain.Key) (*vault.FolderTree, error) {
	folders := make([]models.Folder, 0, len(encrypted))
	for _, f := range encrypted {
		if f.Deleted || f.Smart {
			continue
		}

		var o folderOverview
		if err := decryptJSON(f.Overview, overview, &o); err != nil {
			return nil, app.Corrupted(fmt.Sprintf("opvault: folder %q", f.UUID), err)
		}

		folders = append(folders, models.Folder{ID: f.UUID, Title: o.Title, ParentID: f.Parent})
	}

	return vault.NewFolderTree(folders)
}

func decryptAccount(item rawItem, master, overviewKey *keychain.Key, tree *vault.FolderTree) (models.Account, error) {
	storedTag, err := utils.DecodeBase64(item.str("hmac"))
	if err != nil {
		return models.Account{}, err
	}
	if !crypto.Equal(crypto.HMACSHA256(overviewKey.MAC, item.tagContent()), storedTag) {
		return models.Account{}, ErrItemTag
	}

	var overview itemOverview
	if err = decryptJSON(item.str("o"), overviewKey, &overview); err != nil {
		return models.Account{}, fmt.Errorf("overview: %w", err)
	}

	itemKey, err := decryptItemKey(item.str("k"), master)
	if err != nil {
		return models.Account{}, err
	}

	var details itemDetails
	if err = decryptJSON(item.str("d"), itemKey, &details); err != nil {
		return models.Account{}, fmt.Errorf("details: %w", err)
	}

	folder := ""
	if _, ok := tree.Get(item.str("folder")); ok {
		folder = item.str("folder")
	}

	return models.Account{
		ID:       item.str("uuid"),
		Name:     overview.Title,
		Username: details.field("username"),
		Password: details.field("password"),
		URLs:     overview.urls(),
		Note:     details.NotesPlain,
		Folder:   folder,
	}, nil
}

func decryptJSON(encoded string, key *keychain.Key, v any) error {
	plain, err := decryptOpdataBase64(encoded, key)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(plain, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}
