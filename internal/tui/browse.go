// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

var writeClipboard = clipboard.WriteAll

// browseModel lists the opened accounts, shows one in detail and copies
// its fields to the clipboard.
type browseModel struct {
	accounts []models.Account
	folders  map[string]string
	failures int

	visible []int
	idx     int

	filtering bool
	filter    textinput.Model

	detail                bool
	detailRevealSensitive bool
	showBuildInfo         bool
	buildInfo             models.AppBuildInfo

	status string
	errMsg string
}

func newBrowseModel(result vault.Result, buildInfo models.AppBuildInfo) browseModel {
	folders := make(map[string]string, len(result.Folders))
	for _, f := range result.Folders {
		folders[f.ID] = f.Title
	}

	filter := textinput.New()
	filter.Placeholder = "поиск"
	filter.Width = 40

	m := browseModel{
		accounts:  result.Accounts,
		folders:   folders,
		failures:  len(result.Failures),
		filter:    filter,
		buildInfo: buildInfo,
	}
	m.applyFilter()
	return m
}

// Browse shows result until the user quits.
func (t *TUI) Browse(ctx context.Context, result vault.Result) error {
	_, err := t.run(ctx, newBrowseModel(result, t.buildInfo))
	return err
}

func (m *browseModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	m.visible = m.visible[:0]
	for i, a := range m.accounts {
		if q == "" ||
			strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Username), q) ||
			strings.Contains(strings.ToLower(strings.Join(a.URLs, " ")), q) {
			m.visible = append(m.visible, i)
		}
	}

	if m.idx >= len(m.visible) {
		m.idx = len(m.visible) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m browseModel) current() (models.Account, bool) {
	if len(m.visible) == 0 || m.idx < 0 || m.idx >= len(m.visible) {
		return models.Account{}, false
	}
	return m.accounts[m.visible[m.idx]], true
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.filtering {
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showBuildInfo {
		if key.Matches(keyMsg, keys.esc) || key.Matches(keyMsg, keys.version) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	if m.filtering {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	if key.Matches(keyMsg, keys.quit) {
		return m, tea.Quit
	}

	if m.detail {
		account, ok := m.current()
		if !ok {
			m.detail = false
			return m, nil
		}

		switch {
		case key.Matches(keyMsg, keys.esc):
			m.detail = false
			m.detailRevealSensitive = false
		case key.Matches(keyMsg, keys.reveal):
			m.detailRevealSensitive = !m.detailRevealSensitive
		default:
			m.copyField(keyMsg, account)
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.visible)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.search):
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.version):
		m.showBuildInfo = true
	case key.Matches(keyMsg, keys.enter):
		if _, ok := m.current(); !ok {
			m.status = "Нет записей"
			return m, nil
		}
		m.detailRevealSensitive = false
		m.detail = true
	default:
		if account, ok := m.current(); ok {
			m.copyField(keyMsg, account)
		}
	}

	return m, nil
}

func (m *browseModel) copyField(keyMsg tea.KeyMsg, account models.Account) {
	var (
		text string
		what string
	)
	switch {
	case key.Matches(keyMsg, keys.copy):
		text, what = account.Password, "Пароль"
	case key.Matches(keyMsg, keys.copyUser):
		text, what = account.Username, "Логин"
	case key.Matches(keyMsg, keys.copyTOTP):
		text, what = account.TOTP, "TOTP"
	case key.Matches(keyMsg, keys.copyURL):
		if len(account.URLs) > 0 {
			text = account.URLs[0]
		}
		what = "URL"
	default:
		return
	}

	m.status, m.errMsg = "", ""
	if text == "" {
		m.errMsg = errNothingToCopy.Error()
		return
	}
	if err := writeClipboard(text); err != nil {
		m.errMsg = fmt.Sprintf("Ошибка копирования: %v", err)
		return
	}
	m.status = what + " скопирован"
}

func (m browseModel) View() string {
	if m.showBuildInfo {
		return renderBuildInfoWindow(m.buildInfo)
	}
	if m.detail {
		if account, ok := m.current(); ok {
			return m.viewDetail(account)
		}
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	var b strings.Builder

	if m.filtering || m.filter.Value() != "" {
		b.WriteString("Поиск: [")
		b.WriteString(m.filter.View())
		b.WriteString("]\n\n")
	}

	if len(m.visible) == 0 {
		b.WriteString("Нет записей\n")
	}
	for i, n := range m.visible {
		a := m.accounts[n]
		cursor := "  "
		if i == m.idx {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-30s │ %-24s │ %s\n",
			cursor,
			fitText(a.Name, 30),
			fitText(valueOrDash(a.Username), 24),
			fitText(valueOrDash(m.folders[a.Folder]), 20)))
	}

	b.WriteString(fmt.Sprintf("\nЗаписей: %d", len(m.accounts)))
	if m.failures > 0 {
		b.WriteString(fmt.Sprintf(" │ повреждено: %d", m.failures))
	}
	b.WriteString("\n")
	m.writeStatus(&b)

	return renderPage("ХРАНИЛИЩЕ", strings.TrimRight(b.String(), "\n"),
		"enter: открыть │ /: поиск │ c: пароль │ u: логин │ v: версия │ q: выход")
}

func (m browseModel) viewDetail(a models.Account) string {
	var b strings.Builder

	password := maskedValue
	if a.Password == "" {
		password = "-"
	} else if m.detailRevealSensitive {
		password = a.Password
	}

	b.WriteString(fmt.Sprintf("Логин:    %s\n", valueOrDash(a.Username)))
	b.WriteString(fmt.Sprintf("Пароль:   %s\n", password))
	if len(a.URLs) == 0 {
		b.WriteString("URL:      -\n")
	}
	for _, u := range a.URLs {
		b.WriteString(fmt.Sprintf("URL:      %s\n", u))
	}
	b.WriteString(fmt.Sprintf("TOTP:     %s\n", valueOrDash(a.TOTP)))
	b.WriteString(fmt.Sprintf("Папка:    %s\n", valueOrDash(m.folders[a.Folder])))
	b.WriteString(fmt.Sprintf("Заметки:  %s\n", valueOrDash(a.Note)))
	m.writeStatus(&b)

	return renderPage(a.Name, strings.TrimRight(b.String(), "\n"),
		"пробел: показать │ c: пароль │ u: логин │ t: TOTP │ o: URL │ esc: назад")
}

func (m browseModel) writeStatus(b *strings.Builder) {
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}
}
