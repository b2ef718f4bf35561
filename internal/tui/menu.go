// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// menuModel picks one of items.
type menuModel struct {
	title string
	notes []string
	items []string
	idx   int

	allowRemember bool
	remember      bool

	canceled bool
}

func newMenuModel(title string, notes []string, items ...string) menuModel {
	return menuModel{title: title, notes: notes, items: items}
}

func (m menuModel) withRemember() menuModel {
	m.allowRemember = true
	return m
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc), key.Matches(keyMsg, keys.quit):
		m.canceled = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.remember):
		if m.allowRemember {
			m.remember = !m.remember
		}
	case key.Matches(keyMsg, keys.enter):
		if len(m.items) > 0 {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder

	for _, note := range m.notes {
		b.WriteString(note)
		b.WriteString("\n")
	}
	if len(m.notes) > 0 {
		b.WriteString("\n")
	}

	idColWidth := max(lipgloss.Width("ID"), lipgloss.Width(fmt.Sprintf("%d", len(m.items))))
	idColWidth += 2 // "<marker> <id>"

	actionColWidth := lipgloss.Width("Действие")
	for _, item := range m.items {
		actionColWidth = max(actionColWidth, lipgloss.Width(item))
	}

	b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, "ID", actionColWidth, "Действие"))
	b.WriteString(strings.Repeat("─", idColWidth))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", actionColWidth))
	b.WriteString("\n")

	for i, item := range m.items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		idCell := fmt.Sprintf("%s %d", cursor, i+1)
		b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, idCell, actionColWidth, item))
	}

	if m.allowRemember {
		b.WriteString("\n")
		b.WriteString(checkbox(m.remember))
		b.WriteString(" Запомнить это устройство\n")
	}

	hotKeys := "enter: выбрать │ ↑/↓: навигация │ esc: отмена"
	if m.allowRemember {
		hotKeys += " │ ctrl+r: запомнить"
	}
	return renderPage(m.title, strings.TrimRight(b.String(), "\n"), hotKeys)
}
