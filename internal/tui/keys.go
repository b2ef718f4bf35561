// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	esc      key.Binding
	tab      key.Binding
	backtab  key.Binding
	quit     key.Binding
	remember key.Binding
	reveal   key.Binding
	search   key.Binding
	version  key.Binding
	copy     key.Binding
	copyUser key.Binding
	copyTOTP key.Binding
	copyURL  key.Binding
}

var keys = keyMap{
	up:       key.NewBinding(key.WithKeys("up", "k")),
	down:     key.NewBinding(key.WithKeys("down", "j")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	tab:      key.NewBinding(key.WithKeys("tab")),
	backtab:  key.NewBinding(key.WithKeys("shift+tab")),
	quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	remember: key.NewBinding(key.WithKeys("ctrl+r")),
	reveal:   key.NewBinding(key.WithKeys(" ")),
	search:   key.NewBinding(key.WithKeys("/")),
	version:  key.NewBinding(key.WithKeys("v")),
	copy:     key.NewBinding(key.WithKeys("c")),
	copyUser: key.NewBinding(key.WithKeys("u")),
	copyTOTP: key.NewBinding(key.WithKeys("t")),
	copyURL:  key.NewBinding(key.WithKeys("o")),
}
