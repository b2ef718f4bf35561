// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/models"
)

// TUI answers the interactive steps of every provider login in the
// terminal and browses the opened vault. Every prompt is a short Bubble Tea
// program; only one runs at a time.
type TUI struct {
	in        io.Reader
	out       io.Writer
	altScreen bool
	buildInfo models.AppBuildInfo
	log       *logger.Logger

	mu sync.Mutex
}

// Option customizes a TUI.
type Option func(*TUI)

// WithIO replaces the terminal with in and out and disables the alternate
// screen.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(t *TUI) {
		t.in, t.out = in, out
		t.altScreen = false
	}
}

func New(log *logger.Logger, buildInfo models.AppBuildInfo, opts ...Option) *TUI {
	if log == nil {
		log = logger.Nop()
	}

	t := &TUI{
		in:        os.Stdin,
		out:       os.Stdout,
		altScreen: true,
		buildInfo: buildInfo,
		log:       log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ mfa.UI = (*TUI)(nil)

func (t *TUI) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	}
	if t.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("tui: %w", err)
	}
	return final, nil
}

// ask runs a prompt and returns it once the user submitted it.
func (t *TUI) ask(ctx context.Context, m promptModel) (promptModel, error) {
	final, err := t.run(ctx, m)
	if err != nil {
		return promptModel{}, err
	}

	result, ok := final.(promptModel)
	if !ok {
		return promptModel{}, tea.ErrProgramKilled
	}
	if result.canceled {
		return promptModel{}, mfa.ErrCanceled
	}
	return result, nil
}

// choose runs a menu and returns it once the user picked an item.
func (t *TUI) choose(ctx context.Context, m menuModel) (menuModel, error) {
	final, err := t.run(ctx, m)
	if err != nil {
		return menuModel{}, err
	}

	result, ok := final.(menuModel)
	if !ok {
		return menuModel{}, tea.ErrProgramKilled
	}
	if result.canceled {
		return menuModel{}, mfa.ErrCanceled
	}
	return result, nil
}
