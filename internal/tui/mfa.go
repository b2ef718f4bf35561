// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
)

func factorTitle(f mfa.Factor) string {
	switch f {
	case mfa.FactorTOTP:
		return "ОДНОРАЗОВЫЙ КОД"
	case mfa.FactorOutOfBand:
		return "ПОДТВЕРЖДЕНИЕ НА УСТРОЙСТВЕ"
	case mfa.FactorDuo:
		return "DUO"
	}
	return "ВТОРОЙ ФАКТОР"
}

func attemptNote(attempt int) []string {
	if attempt <= 1 {
		return nil
	}
	return []string{fmt.Sprintf("Попытка %d: предыдущий ввод не принят", attempt)}
}

// ProvidePasscode implements [mfa.PasscodeProvider].
func (t *TUI) ProvidePasscode(ctx context.Context, prompt mfa.PasscodePrompt) (mfa.Passcode, error) {
	notes := attemptNote(prompt.Attempt)
	if prompt.Method != "" {
		notes = append([]string{"Метод: " + prompt.Method}, notes...)
	}

	m, err := t.ask(ctx, newPromptModel(factorTitle(prompt.Factor), notes,
		promptField{label: "Код", placeholder: "123456"}).withRemember())
	if err != nil {
		return mfa.Passcode{}, err
	}
	return mfa.Passcode{Code: m.value(0), RememberMe: m.remember}, nil
}

// ApproveOutOfBand implements [mfa.OOBApprover]. The user either waits
// for the approval or types a code shown by the device.
func (t *TUI) ApproveOutOfBand(ctx context.Context, challenge mfa.OutOfBand) (mfa.OOBResult, error) {
	notes := []string{"Подтвердите вход: " + valueOrDash(challenge.Method)}
	for _, d := range challenge.Devices {
		notes = append(notes, "Устройство: "+valueOrDash(d.Name))
	}

	choice, err := t.choose(ctx, newMenuModel(factorTitle(mfa.FactorOutOfBand), notes,
		"Ждать подтверждения", "Ввести код").withRemember())
	if err != nil {
		return mfa.OOBResult{}, err
	}

	if choice.idx == 0 {
		return mfa.OOBResult{Action: mfa.OOBWait, RememberMe: choice.remember}, nil
	}

	m, err := t.ask(ctx, newPromptModel(factorTitle(mfa.FactorOutOfBand), nil,
		promptField{label: "Код", placeholder: "123456"}))
	if err != nil {
		return mfa.OOBResult{}, err
	}
	return mfa.OOBResult{Action: mfa.OOBPasscode, Passcode: m.value(0), RememberMe: choice.remember}, nil
}

// Assert implements [mfa.WebAuthnAuthenticator]. The terminal has no
// access to security keys.
func (t *TUI) Assert(ctx context.Context, challenge mfa.HardwareAssertion) (mfa.Assertion, error) {
	return mfa.Assertion{}, app.Unsupported("tui: hardware security keys are not supported")
}

// SolveCaptcha implements [mfa.CaptchaSolver]. The verification page is
// copied to the clipboard; the user pastes back the token it shows.
func (t *TUI) SolveCaptcha(ctx context.Context, url, humanVerificationToken string) (string, error) {
	notes := []string{"Откройте страницу проверки в браузере:", url}
	if err := writeClipboard(url); err != nil {
		t.log.Debug().Err(err).Msg("copy captcha url")
	} else {
		notes = append(notes, "(ссылка скопирована в буфер обмена)")
	}

	m, err := t.ask(ctx, newPromptModel("ПРОВЕРКА CAPTCHA", notes,
		promptField{label: "Токен", placeholder: "токен со страницы проверки"}))
	if err != nil {
		return "", err
	}
	return m.value(0), nil
}

// ProvideExtraPassword implements [mfa.ExtraPasswordProvider].
func (t *TUI) ProvideExtraPassword(ctx context.Context, attempt int) (string, error) {
	m, err := t.ask(ctx, newPromptModel("ДОПОЛНИТЕЛЬНЫЙ ПАРОЛЬ", attemptNote(attempt),
		promptField{label: "Пароль", placeholder: "пароль Proton Pass", secret: true}))
	if err != nil {
		return "", err
	}
	return m.value(0), nil
}
