// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Account is a single decrypted credential entry produced by a provider.
// It is immutable once returned to the caller.
type Account struct {
	// ID is the provider's identifier of the item. It stays the same across
	// repeated opens of the same vault revision.
	ID string `json:"id"`

	// Name is the display title of the item.
	Name string `json:"name"`

	// Username is the login name stored in the item.
	Username string `json:"username"`

	// Password is the plaintext password. Never logged.
	Password string `json:"password"`

	// URLs lists every address attached to the item, primary first.
	URLs []string `json:"urls,omitempty"`

	// Note is the free-form note text.
	Note string `json:"note,omitempty"`

	// TOTP is the optional one-time password seed or otpauth:// URI.
	TOTP string `json:"totp,omitempty"`

	// Folder is the id of the folder, group or vault the item belongs to.
	Folder string `json:"folder,omitempty"`
}

// URL returns the primary address of the account or an empty string.
func (a Account) URL() string {
	if len(a.URLs) == 0 {
		return ""
	}
	return a.URLs[0]
}
