// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/models"
)

// ReadCredential asks for the login of provider. A known username is
// filled in. OpVault only needs the master password.
func (t *TUI) ReadCredential(ctx context.Context, provider, username string) (models.Credential, error) {
	title := "ВХОД: " + strings.ToUpper(provider)

	if provider == config.ProviderOpVault {
		m, err := t.ask(ctx, newPromptModel(title, nil,
			promptField{label: "Мастер-пароль", placeholder: "password", secret: true}))
		if err != nil {
			return models.Credential{}, err
		}
		return models.Credential{Password: m.value(0)}, nil
	}

	fields := []promptField{
		{label: "Логин", placeholder: "e-mail", value: username},
		{label: "Пароль", placeholder: "password", secret: true},
	}
	if provider == config.ProviderOnePassword {
		fields = append(fields, promptField{label: "Ключ аккаунта", placeholder: "A3-XXXXXX-...", secret: true})
	}

	m, err := t.ask(ctx, newPromptModel(title, nil, fields...).focusOnEmpty())
	if err != nil {
		return models.Credential{}, err
	}

	credential := models.Credential{
		Username: strings.TrimSpace(m.value(0)),
		Password: m.value(1),
	}
	if provider == config.ProviderOnePassword {
		credential.AccountKey = strings.TrimSpace(m.value(2))
	}
	return credential, nil
}
