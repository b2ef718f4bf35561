// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

const (
	templateLogin    = "001"
	templatePassword = "005"

	trashed = "Y"

	totpFieldPrefix = "TOTP_"
)

type overview struct {
	Title string    `json:"title"`
	URL   string    `json:"url"`
	URLs  []itemURL `json:"URLs"`
}

type itemURL struct {
	Label string `json:"l"`
	URL   string `json:"u"`
}

type details struct {
	Fields     []field   `json:"fields"`
	NotesPlain string    `json:"notesPlain"`
	Password   string    `json:"password"`
	Sections   []section `json:"sections"`
}

type field struct {
	Designation string `json:"designation"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Value       string `json:"value"`
}

type section struct {
	Title  string         `json:"title"`
	Fields []sectionField `json:"fields"`
}

type sectionField struct {
	Kind  string `json:"k"`
	Name  string `json:"n"`
	Title string `json:"t"`
	Value any    `json:"v"`
}

func (o overview) urls() []string {
	var urls []string
	add := func(u string) {
		if u != "" && !slices.Contains(urls, u) {
			urls = append(urls, u)
		}
	}

	add(o.URL)
	for _, u := range o.URLs {
		add(u.URL)
	}
	return urls
}

// totp returns the first one-time password field of the item.
func (d details) totp() string {
	for _, s := range d.Sections {
		for _, f := range s.Fields {
			if !strings.HasPrefix(f.Name, totpFieldPrefix) {
				continue
			}
			if v, ok := f.Value.(string); ok && v != "" {
				return v
			}
		}
	}
	return ""
}

func toItem(it vaultItem) vault.Item {
	return vault.Item{
		ID:      it.UUID,
		Type:    it.TemplateUUID,
		Deleted: it.Trashed == trashed,
		Raw:     it,
	}
}

// itemDecryptor opens login and password items of one vault.
func itemDecryptor(vaultID string, keys *keychain.Keychain) vault.Decryptor {
	return vault.Decryptor{
		Filter: vault.TypeFilter(templateLogin, templatePassword),
		Open: func(item vault.Item) (models.Account, error) {
			it, ok := item.Raw.(vaultItem)
			if !ok {
				return models.Account{}, fmt.Errorf("unexpected item %T", item.Raw)
			}
			return decryptItem(it, vaultID, keys)
		},
	}
}

func decryptItem(it vaultItem, vaultID string, keys *keychain.Keychain) (models.Account, error) {
	o, err := decryptJSON[overview](it.Overview, keys)
	if err != nil {
		return models.Account{}, fmt.Errorf("overview: %w", err)
	}

	d, err := decryptJSON[details](it.Details, keys)
	if err != nil {
		return models.Account{}, fmt.Errorf("details: %w", err)
	}

	account := models.Account{
		ID:       it.UUID,
		Name:     o.Title,
		Password: d.Password,
		URLs:     o.urls(),
		Note:     d.NotesPlain,
		TOTP:     d.totp(),
		Folder:   vaultID,
	}

	for _, f := range d.Fields {
		switch f.Designation {
		case "username":
			account.Username = f.Value
		case "password":
			account.Password = f.Value
		}
	}

	return account, nil
}
