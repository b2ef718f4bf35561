// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lastpass

import (
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/crypto"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/utils"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

const (
	privateKeyID = "rsa"
	shareKeyID   = "share:"

	secureNoteURL = "http://sn"
	groupURL      = "http://group"

	groupSeparator = "\\"
)

// ACCT field positions.
const (
	fieldID       = 0
	fieldName     = 1
	fieldGroup    = 2
	fieldURL      = 3
	fieldNotes    = 4
	fieldUsername = 7
	fieldPassword = 8
)

type encryptedShare struct {
	id string
	// rsaKey is the hex encoded RSA-OAEP ciphertext of the hex share key.
	rsaKey []byte
	name   []byte
	// aesKey is the share key encrypted with the user key, when the server
	// already re-encrypted it.
	aesKey []byte
}

type encryptedAccount struct {
	fields [][]byte
	share  *encryptedShare
}

type parsedBlob struct {
	privateKey string
	shares     []*encryptedShare
	accounts   []encryptedAccount
}

func parseBlob(blob []byte) (parsedBlob, error) {
	chunks, err := readChunks(blob)
	if err != nil {
		return parsedBlob{}, err
	}

	var (
		out   parsedBlob
		share *encryptedShare
	)
	for _, c := range chunks {
		switch c.id {
		case chunkAccount:
			items, err := readItems(c.payload)
			if err != nil {
				return parsedBlob{}, err
			}
			out.accounts = append(out.accounts, encryptedAccount{fields: items, share: share})
		case chunkShare:
			items, err := readItems(c.payload)
			if err != nil {
				return parsedBlob{}, err
			}
			share = &encryptedShare{
				id:     string(item(items, 0)),
				rsaKey: item(items, 1),
				name:   item(items, 2),
				aesKey: item(items, 5),
			}
			out.shares = append(out.shares, share)
		case chunkPrivateKey:
			out.privateKey = string(c.payload)
		}
	}

	return out, nil
}

// shareRecords lists the keys the blob needs: the private key and one key
// per shared folder. A share only encrypted to the RSA key is left out
// when there is no private key to open it.
func (p parsedBlob) shareRecords(privateKey string) []keychain.Record {
	var records []keychain.Record
	if privateKey != "" {
		records = append(records, keychain.Record{ID: privateKeyID, EncryptedBy: keychain.MasterKeyID, Blob: privateKey})
	}

	for _, s := range p.shares {
		switch {
		case len(s.aesKey) > 0:
			records = append(records, keychain.Record{ID: shareKeyID + s.id, EncryptedBy: keychain.MasterKeyID, Blob: s})
		case privateKey != "" && len(s.rsaKey) > 0:
			records = append(records, keychain.Record{ID: shareKeyID + s.id, EncryptedBy: privateKeyID, Blob: s})
		}
	}

	return records
}

func decryptKeyRecord(parent *keychain.Key, record keychain.Record) (*keychain.Key, error) {
	switch blob := record.Blob.(type) {
	case string:
		private, err := decryptPrivateKey(blob, parent.Encryption)
		if err != nil {
			return nil, err
		}
		return &keychain.Key{Private: private}, nil
	case *encryptedShare:
		var (
			keyHex []byte
			err    error
		)
		if parent.Private != nil {
			keyHex, err = decryptShareKeyRSA(blob.rsaKey, parent.Private)
		} else {
			keyHex, err = decryptPlain(blob.aesKey, parent.Encryption)
		}
		if err != nil {
			return nil, err
		}

		key, err := utils.DecodeHex(string(keyHex))
		if err != nil {
			return nil, err
		}
		return &keychain.Key{Encryption: key}, nil
	}

	return nil, fmt.Errorf("unexpected key record %q", record.ID)
}

func decryptShareKeyRSA(encryptedHex []byte, private *rsa.PrivateKey) ([]byte, error) {
	ct, err := utils.DecodeHex(string(encryptedHex))
	if err != nil {
		return nil, err
	}
	return crypto.DecryptRSA(crypto.RSAOAEPSHA1, private, ct)
}

// parseVault decrypts the blob with key. privateKey is the login answer's
// privatekeyenc and may be empty, in which case a PRIK chunk is used.
func parseVault(blob, key []byte, privateKey string) (vault.Result, error) {
	parsed, err := parseBlob(blob)
	if err != nil {
		return vault.Result{}, err
	}

	if privateKey == "" {
		privateKey = parsed.privateKey
	}

	root := &keychain.Key{ID: keychain.MasterKeyID, Encryption: key}
	keys, err := keychain.ResolveAll(parsed.shareRecords(privateKey), root, decryptKeyRecord)
	if err != nil {
		return vault.Result{}, mapKeyError(err)
	}

	shareNames := make(map[string]string, len(parsed.shares))
	for _, s := range parsed.shares {
		shareKey, ok := keys.Get(shareKeyID + s.id)
		if !ok {
			continue
		}
		name, err := decryptBase64(s.name, shareKey.Encryption)
		if err != nil {
			return vault.Result{}, app.Corrupted(fmt.Sprintf("lastpass: shared folder %q name", s.id), err)
		}
		shareNames[s.id] = string(name)
	}

	paths := newFolderPaths()

	items := make([]vault.Item, 0, len(parsed.accounts))
	for _, a := range parsed.accounts {
		items = append(items, vault.Item{ID: string(item(a.fields, fieldID)), Type: chunkAccount, Raw: a})
	}

	decryptor := vault.Decryptor{
		Open: func(it vault.Item) (models.Account, error) {
			a := it.Raw.(encryptedAccount)

			accountKey := root
			shareName := ""
			if a.share != nil {
				k, ok := keys.Get(shareKeyID + a.share.id)
				if !ok {
					return models.Account{}, vault.ErrSkip
				}
				accountKey = k
				shareName = shareNames[a.share.id]
			}

			account, group, err := decryptAccount(a.fields, accountKey.Encryption)
			if err != nil {
				return models.Account{}, err
			}

			folder := joinGroup(shareName, group)
			paths.add(folder)

			if account.URL() == groupURL {
				return models.Account{}, vault.ErrSkip
			}
			if account.URL() == secureNoteURL {
				return models.Account{}, vault.ErrSkip
			}

			account.Folder = folder
			return account, nil
		},
	}

	accounts, failures := vault.DecryptBatch(items, decryptor)

	tree, err := vault.NewFolderTree(paths.folders())
	if err != nil {
		return vault.Result{}, err
	}

	return vault.Result{Accounts: accounts, Folders: tree.Folders(), Failures: failures}, nil
}

func decryptAccount(fields [][]byte, key []byte) (models.Account, string, error) {
	var (
		out  = models.Account{ID: string(item(fields, fieldID))}
		errs = make([]error, 0, 5)
		dec  = func(i int) string {
			s, err := decryptString(item(fields, i), key)
			if err != nil {
				errs = append(errs, err)
			}
			return s
		}
	)

	out.Name = dec(fieldName)
	group := dec(fieldGroup)
	out.Note = dec(fieldNotes)
	out.Username = dec(fieldUsername)
	out.Password = dec(fieldPassword)
	if len(errs) > 0 {
		return models.Account{}, "", errs[0]
	}

	rawURL, err := utils.DecodeHex(string(item(fields, fieldURL)))
	if err != nil {
		return models.Account{}, "", err
	}
	if len(rawURL) > 0 {
		out.URLs = []string{string(rawURL)}
	}

	return out, group, nil
}

func joinGroup(share, group string) string {
	switch {
	case share == "":
		return group
	case group == "":
		return share
	}
	return share + groupSeparator + group
}

// folderPaths turns "a\b\c" group paths into a folder for every prefix.
type folderPaths map[string]struct{}

func newFolderPaths() folderPaths { return folderPaths{} }

func (p folderPaths) add(path string) {
	for path != "" {
		p[path] = struct{}{}
		i := strings.LastIndex(path, groupSeparator)
		if i < 0 {
			return
		}
		path = path[:i]
	}
}

func (p folderPaths) folders() []models.Folder {
	out := make([]models.Folder, 0, len(p))
	for path := range p {
		folder := models.Folder{ID: path, Title: path}
		if i := strings.LastIndex(path, groupSeparator); i >= 0 {
			folder.ParentID = path[:i]
			folder.Title = path[i+1:]
		}
		out = append(out, folder)
	}
	return out
}
