// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

var (
	// ErrNoDevices is returned by ChooseDuoFactor when there is nothing to
	// choose from.
	ErrNoDevices = errors.New("tui: no devices to choose from")

	errNothingToCopy = errors.New("нечего копировать")
)

// Humanize turns a login or vault error into a message for the user.
func Humanize(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, app.ErrBadCredentials):
		return "Неверный логин, пароль или ключ аккаунта"
	case errors.Is(err, app.ErrBadMultiFactor):
		return "Второй фактор не принят"
	case errors.Is(err, app.ErrCanceledMultiFactor):
		return "Вход отменён"
	case errors.Is(err, app.ErrUnsupportedFeature):
		return "Не поддерживается: " + err.Error()
	case errors.Is(err, app.ErrNetwork):
		return "Отсутствует сеть или сервер недоступен"
	case errors.Is(err, app.ErrVaultCorrupted):
		return "Хранилище повреждено: " + err.Error()
	}
	return err.Error()
}
