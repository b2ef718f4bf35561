// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Credential is the user supplied login input. It is never persisted.
type Credential struct {
	// Username is the account e-mail or login name.
	Username string

	// Password is the master password.
	Password string

	// AccountKey is the 1Password secret key ("A3-...") when required.
	AccountKey string
}

// Vault is a container of accounts as listed by a provider before its
// contents are downloaded.
type Vault struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
