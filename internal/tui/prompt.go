// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type promptField struct {
	label       string
	placeholder string
	value       string
	secret      bool
}

// promptModel is a form of text inputs submitted with enter. All fields
// are required.
type promptModel struct {
	title  string
	notes  []string
	labels []string
	inputs []textinput.Model
	focus  int

	allowRemember bool
	remember      bool

	errMsg   string
	canceled bool
}

func newPromptModel(title string, notes []string, fields ...promptField) promptModel {
	m := promptModel{title: title, notes: notes}

	for i, f := range fields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.CharLimit = 256
		in.Width = 40
		in.SetValue(f.value)
		if f.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		if i == 0 {
			in.Focus()
		}

		m.labels = append(m.labels, f.label)
		m.inputs = append(m.inputs, in)
	}
	return m
}

// withRemember lets the user toggle "remember this device" with ctrl+r.
func (m promptModel) withRemember() promptModel {
	m.allowRemember = true
	return m
}

// focusOnEmpty moves the cursor to the first empty field.
func (m promptModel) focusOnEmpty() promptModel {
	for i := range m.inputs {
		if m.inputs[i].Value() == "" {
			m.inputs[m.focus].Blur()
			m.focus = i
			m.inputs[i].Focus()
			break
		}
	}
	return m
}

func (m promptModel) value(i int) string {
	return m.inputs[i].Value()
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc), keyMsg.String() == "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		case key.Matches(keyMsg, keys.tab):
			m.move(1)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.move(-1)
			return m, nil
		case key.Matches(keyMsg, keys.remember):
			if m.allowRemember {
				m.remember = !m.remember
			}
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			for i, in := range m.inputs {
				if strings.TrimSpace(in.Value()) == "" {
					m.errMsg = "Поле «" + m.labels[i] + "» обязательно"
					return m, nil
				}
			}
			m.errMsg = ""
			return m, tea.Quit
		}
	}

	if len(m.inputs) == 0 {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *promptModel) move(step int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + step + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m promptModel) View() string {
	var b strings.Builder

	for _, note := range m.notes {
		b.WriteString(note)
		b.WriteString("\n")
	}
	if len(m.notes) > 0 {
		b.WriteString("\n")
	}

	width := 0
	for _, l := range m.labels {
		width = max(width, len([]rune(l)))
	}

	for i, in := range m.inputs {
		b.WriteString(padRight(m.labels[i], width))
		b.WriteString(" │ [")
		b.WriteString(in.View())
		b.WriteString("]\n")
	}

	if m.allowRemember {
		b.WriteString("\n")
		b.WriteString(checkbox(m.remember))
		b.WriteString(" Запомнить это устройство\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	hotKeys := "esc: отмена │ enter: подтвердить"
	if len(m.inputs) > 1 {
		hotKeys += " │ tab: след. поле"
	}
	if m.allowRemember {
		hotKeys += " │ ctrl+r: запомнить"
	}
	return renderPage(m.title, strings.TrimRight(b.String(), "\n"), hotKeys)
}
