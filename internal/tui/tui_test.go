// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/duo"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m tea.Model, s string) tea.Model {
	t.Helper()
	for _, r := range s {
		m, _ = m.Update(runes(string(r)))
	}
	return m
}

func update(m tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.Update(msg)
}

func stubClipboard(t *testing.T, err error) *[]string {
	t.Helper()

	var copied []string
	prev := writeClipboard
	writeClipboard = func(text string) error {
		if err != nil {
			return err
		}
		copied = append(copied, text)
		return nil
	}
	t.Cleanup(func() { writeClipboard = prev })
	return &copied
}

func newTestTUI(input string) (*TUI, *bytes.Buffer) {
	var out bytes.Buffer
	return New(nil, models.NewAppBuildInfo("1.0.0", "2026-10-19", "abc123"), WithIO(strings.NewReader(input), &out)), &out
}

// ── promptModel ──────────────────────────────────────────────────────────────

func TestPromptModel_SubmitsAllFields(t *testing.T) {
	var m tea.Model = newPromptModel("ВХОД", nil,
		promptField{label: "Логин"},
		promptField{label: "Пароль", secret: true},
	).withRemember()

	m = typeText(t, m, "alice")
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "secret")
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	p := m.(promptModel)
	assert.False(t, p.canceled)
	assert.True(t, p.remember)
	assert.Equal(t, "alice", p.value(0))
	assert.Equal(t, "secret", p.value(1))
	assert.NotContains(t, p.View(), "secret")
}

func TestPromptModel_RequiresEveryField(t *testing.T) {
	var m tea.Model = newPromptModel("ВХОД", nil,
		promptField{label: "Логин", value: "alice"},
		promptField{label: "Пароль", secret: true},
	).focusOnEmpty()

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Пароль")
	assert.Equal(t, 1, m.(promptModel).focus)

	m = typeText(t, m, "pw")
	_, cmd = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
}

func TestPromptModel_Cancel(t *testing.T) {
	tests := []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	}

	for _, msg := range tests {
		t.Run(msg.String(), func(t *testing.T) {
			m, cmd := update(newPromptModel("КОД", nil, promptField{label: "Код"}), msg)
			require.NotNil(t, cmd)
			assert.True(t, m.(promptModel).canceled)
		})
	}
}

func TestPromptModel_RememberIsOptIn(t *testing.T) {
	m, _ := update(newPromptModel("КОД", nil, promptField{label: "Код"}), tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.False(t, m.(promptModel).remember)
	assert.NotContains(t, m.View(), "Запомнить")
}

// ── menuModel ────────────────────────────────────────────────────────────────

func TestMenuModel_Navigation(t *testing.T) {
	var m tea.Model = newMenuModel("DUO", nil, "push", "звонок", "код").withRemember()

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	menu := m.(menuModel)
	assert.Equal(t, 1, menu.idx)
	assert.True(t, menu.remember)
	assert.False(t, menu.canceled)
	assert.Contains(t, menu.View(), "> 2")
}

func TestMenuModel_Cancel(t *testing.T) {
	m, cmd := update(newMenuModel("DUO", nil, "push"), runes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.(menuModel).canceled)
}

// ── browseModel ──────────────────────────────────────────────────────────────

func testResult() vault.Result {
	return vault.Result{
		Accounts: []models.Account{
			{ID: "1", Name: "Mail", Username: "alice", Password: "mail-secret", URLs: []string{"https://mail.example.com"}, Folder: "f1"},
			{ID: "2", Name: "Bank", Username: "alice.b", Password: "bank-secret", TOTP: "otpauth://totp/bank", Folder: "f2"},
			{ID: "3", Name: "Wiki", Password: ""},
		},
		Folders:  []models.Folder{{ID: "f1", Title: "Personal"}, {ID: "f2", Title: "Finance"}},
		Failures: []*vault.ItemError{{ItemID: "4", Err: app.ErrVaultCorrupted}},
	}
}

func TestBrowseModel_ListAndDetail(t *testing.T) {
	var m tea.Model = newBrowseModel(testResult(), models.AppBuildInfo{})

	view := m.View()
	assert.Contains(t, view, "Mail")
	assert.Contains(t, view, "Personal")
	assert.Contains(t, view, "повреждено: 1")
	assert.NotContains(t, view, "mail-secret")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	view = m.View()
	assert.Contains(t, view, "Bank")
	assert.Contains(t, view, "Finance")
	assert.Contains(t, view, maskedValue)
	assert.NotContains(t, view, "bank-secret")

	m, _ = update(m, runes(" "))
	assert.Contains(t, m.View(), "bank-secret")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.(browseModel).detail)
	assert.False(t, m.(browseModel).detailRevealSensitive)
}

func TestBrowseModel_Copy(t *testing.T) {
	copied := stubClipboard(t, nil)
	var m tea.Model = newBrowseModel(testResult(), models.AppBuildInfo{})

	m, _ = update(m, runes("c"))
	m, _ = update(m, runes("u"))
	m, _ = update(m, runes("o"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(m, runes("t"))

	assert.Equal(t, []string{"mail-secret", "alice", "https://mail.example.com", "otpauth://totp/bank"}, *copied)
	assert.Contains(t, m.View(), "TOTP скопирован")

	m, _ = update(m, runes("o"))
	assert.Equal(t, errNothingToCopy.Error(), m.(browseModel).errMsg)
	assert.Len(t, *copied, 4)
}

func TestBrowseModel_CopyFails(t *testing.T) {
	stubClipboard(t, errors.New("no display"))

	m, _ := update(newBrowseModel(testResult(), models.AppBuildInfo{}), runes("c"))
	assert.Contains(t, m.(browseModel).errMsg, "no display")
}

func TestBrowseModel_Filter(t *testing.T) {
	var m tea.Model = newBrowseModel(testResult(), models.AppBuildInfo{})

	m, _ = update(m, runes("/"))
	m = typeText(t, m, "BANK")
	assert.Len(t, m.(browseModel).visible, 1)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	account, ok := m.(browseModel).current()
	require.True(t, ok)
	assert.Equal(t, "2", account.ID)

	m, _ = update(m, runes("/"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.(browseModel).visible, 3)

	m, _ = update(m, runes("/"))
	m = typeText(t, m, "nothing")
	_, ok = m.(browseModel).current()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "Нет записей")
}

func TestBrowseModel_BuildInfo(t *testing.T) {
	var m tea.Model = newBrowseModel(testResult(), models.NewAppBuildInfo("1.2.3", "", "abc"))

	m, _ = update(m, runes("v"))
	view := m.View()
	assert.Contains(t, view, "1.2.3")
	assert.Contains(t, view, "N/A")

	m, cmd := update(m, runes("q"))
	assert.Nil(t, cmd, "keys go to the overlay")
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, m.View(), "ХРАНИЛИЩЕ")
}

// ── TUI ──────────────────────────────────────────────────────────────────────

func TestTUI_ProvidePasscode(t *testing.T) {
	ui, _ := newTestTUI("654321\r")

	p, err := ui.ProvidePasscode(context.Background(), mfa.PasscodePrompt{Factor: mfa.FactorTOTP, Attempt: 1})
	require.NoError(t, err)
	assert.Equal(t, mfa.Passcode{Code: "654321"}, p)
}

func TestTUI_ProvideExtraPasswordCanceled(t *testing.T) {
	ui, _ := newTestTUI("\x03")

	_, err := ui.ProvideExtraPassword(context.Background(), 2)
	assert.ErrorIs(t, err, mfa.ErrCanceled)
}

func TestTUI_Assert(t *testing.T) {
	ui, _ := newTestTUI("")

	_, err := ui.Assert(context.Background(), mfa.HardwareAssertion{Challenge: "c"})
	assert.ErrorIs(t, err, app.ErrUnsupportedFeature)
}

func TestTUI_ChooseDuoFactorWithoutDevices(t *testing.T) {
	ui, _ := newTestTUI("")

	_, err := ui.ChooseDuoFactor(context.Background(), []duo.Device{{ID: "d1", Name: "phone"}})
	assert.ErrorIs(t, err, ErrNoDevices)
}

func TestTUI_UpdateDuoStatus(t *testing.T) {
	ui, out := newTestTUI("")

	ui.UpdateDuoStatus(duo.StatusInfo, "Pushed a login request to your device...")
	ui.UpdateDuoStatus(duo.StatusSuccess, "Success! Logging you in...")

	assert.Contains(t, out.String(), "Duo: Pushed a login request to your device...")
	assert.Contains(t, out.String(), "Duo: Success! Logging you in...")
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: app.BadCredentials("x"), want: "Неверный логин, пароль или ключ аккаунта"},
		{err: app.BadMultiFactor("x"), want: "Второй фактор не принят"},
		{err: fmt.Errorf("login: %w", app.Canceled("x")), want: "Вход отменён"},
		{err: app.New(app.ErrNetwork, "dial tcp", nil), want: "Отсутствует сеть или сервер недоступен"},
		{err: errors.New("boom"), want: "boom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Humanize(tt.err))
	}
}
