// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protonpass

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

const itemStateActive = 1

// Field numbers of the item and vault messages.
const (
	fieldVaultName        protowire.Number = 1
	fieldVaultDescription protowire.Number = 2

	fieldItemMetadata protowire.Number = 1
	fieldItemContent  protowire.Number = 2

	fieldMetadataName protowire.Number = 1
	fieldMetadataNote protowire.Number = 2

	fieldContentLogin protowire.Number = 3

	fieldLoginEmail    protowire.Number = 1
	fieldLoginPassword protowire.Number = 2
	fieldLoginURLs     protowire.Number = 3
	fieldLoginTOTP     protowire.Number = 4
	fieldLoginUsername protowire.Number = 6
)

var errMalformedMessage = errors.New("malformed protobuf message")

// walkBytes calls fn for every length delimited field of a message and
// skips the rest.
func walkBytes(b []byte, fn func(num protowire.Number, value []byte)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", errMalformedMessage, protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.BytesType {
			if n = protowire.ConsumeFieldValue(num, typ, b); n < 0 {
				return fmt.Errorf("%w: %v", errMalformedMessage, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		value, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", errMalformedMessage, protowire.ParseError(n))
		}
		b = b[n:]
		fn(num, value)
	}
	return nil
}

type vaultContent struct {
	Name        string
	Description string
}

func parseVaultContent(b []byte) (vaultContent, error) {
	var v vaultContent
	err := walkBytes(b, func(num protowire.Number, value []byte) {
		switch num {
		case fieldVaultName:
			v.Name = string(value)
		case fieldVaultDescription:
			v.Description = string(value)
		}
	})
	return v, err
}

type loginContent struct {
	Name     string
	Note     string
	Email    string
	Username string
	Password string
	URLs     []string
	TOTP     string
}

// parseLogin decodes an item. ok is false for anything but a login.
func parseLogin(b []byte) (item loginContent, ok bool, err error) {
	var metadata, content []byte
	if err = walkBytes(b, func(num protowire.Number, value []byte) {
		switch num {
		case fieldItemMetadata:
			metadata = value
		case fieldItemContent:
			content = value
		}
	}); err != nil {
		return loginContent{}, false, err
	}

	var login []byte
	if err = walkBytes(content, func(num protowire.Number, value []byte) {
		if num == fieldContentLogin {
			login, ok = value, true
		}
	}); err != nil || !ok {
		return loginContent{}, false, err
	}

	if err = walkBytes(metadata, func(num protowire.Number, value []byte) {
		switch num {
		case fieldMetadataName:
			item.Name = string(value)
		case fieldMetadataNote:
			item.Note = string(value)
		}
	}); err != nil {
		return loginContent{}, false, err
	}

	err = walkBytes(login, func(num protowire.Number, value []byte) {
		switch num {
		case fieldLoginEmail:
			item.Email = string(value)
		case fieldLoginPassword:
			item.Password = string(value)
		case fieldLoginURLs:
			item.URLs = append(item.URLs, string(value))
		case fieldLoginTOTP:
			item.TOTP = string(value)
		case fieldLoginUsername:
			item.Username = string(value)
		}
	})
	return item, err == nil, err
}

func toItem(it vaultItem) vault.Item {
	return vault.Item{
		ID:      it.ItemID,
		Deleted: it.State != itemStateActive,
		Raw:     it,
	}
}

// decryptItem opens the item key with the vault key, then the content
// with the item key. Items that are not logins are vault.ErrSkip.
func decryptItem(it vaultItem, vaultKey []byte, folder string) (models.Account, error) {
	key, err := openGCM(vaultKey, it.ItemKey, adItemKey)
	if err != nil {
		return models.Account{}, fmt.Errorf("item key: %w", err)
	}

	content, err := openGCM(key, it.Content, adItemContent)
	if err != nil {
		return models.Account{}, fmt.Errorf("content: %w", err)
	}

	login, ok, err := parseLogin(content)
	if err != nil {
		return models.Account{}, err
	}
	if !ok {
		return models.Account{}, vault.ErrSkip
	}

	username := login.Username
	if username == "" {
		username = login.Email
	}

	return models.Account{
		ID:       it.ItemID,
		Name:     login.Name,
		Username: username,
		Password: login.Password,
		URLs:     login.URLs,
		Note:     login.Note,
		TOTP:     login.TOTP,
		Folder:   folder,
	}, nil
}

func itemDecryptor(vaultID string, vaultKey []byte) vault.Decryptor {
	return vault.Decryptor{
		Open: func(item vault.Item) (models.Account, error) {
			return decryptItem(item.Raw.(vaultItem), vaultKey, vaultID)
		},
	}
}
