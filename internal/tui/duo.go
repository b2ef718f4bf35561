// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/duo"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
)

var _ duo.UI = (*TUI)(nil)

func duoFactorName(f duo.Factor) string {
	switch f {
	case duo.FactorPush:
		return "push-уведомление"
	case duo.FactorCall:
		return "звонок"
	case duo.FactorPasscode:
		return "код"
	case duo.FactorSendPasscodesBySMS:
		return "коды по SMS"
	}
	return f.String()
}

// ChooseDuoFactor implements [duo.UI]. Every device and factor pair is one
// menu item.
func (t *TUI) ChooseDuoFactor(ctx context.Context, devices []duo.Device) (duo.Choice, error) {
	var (
		items   []string
		choices []duo.Choice
	)
	for _, d := range devices {
		for _, f := range d.Factors {
			items = append(items, fmt.Sprintf("%s: %s", valueOrDash(d.Name), duoFactorName(f)))
			choices = append(choices, duo.Choice{Device: d, Factor: f})
		}
	}
	if len(choices) == 0 {
		return duo.Choice{}, ErrNoDevices
	}

	m, err := t.choose(ctx, newMenuModel(factorTitle(mfa.FactorDuo), []string{"Выберите способ подтверждения"}, items...).
		withRemember())
	if err != nil {
		return duo.Choice{}, err
	}

	choice := choices[m.idx]
	choice.RememberMe = m.remember
	return choice, nil
}

// ProvideDuoPasscode implements [duo.UI].
func (t *TUI) ProvideDuoPasscode(ctx context.Context, device duo.Device) (string, error) {
	m, err := t.ask(ctx, newPromptModel(factorTitle(mfa.FactorDuo), []string{"Устройство: " + valueOrDash(device.Name)},
		promptField{label: "Код", placeholder: "код Duo"}))
	if err != nil {
		return "", err
	}
	return m.value(0), nil
}

// UpdateDuoStatus implements [duo.UI]. It prints outside of any running
// prompt.
func (t *TUI) UpdateDuoStatus(status duo.Status, text string) {
	style := infoStyle
	switch status {
	case duo.StatusSuccess:
		style = successStyle
	case duo.StatusError:
		style = errorStyle
	}
	fmt.Fprintln(t.out, style.Render("Duo: "+text))
}
