// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors and context-aware helpers used by the provider
// clients.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, etc.) are available directly on *Logger.
// Secrets are never logged; usernames go through Censor.
package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

func configureGlobals() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name() // return function name
	}
	zerolog.CallerFieldName = "func"
}

func newLogger(w io.Writer, role string) *Logger {
	configureGlobals()

	logger := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// NewLogger constructs a *Logger for the given role label (e.g. "vaultdump",
// "onepassword") writing JSON to os.Stderr, so it never mixes with program
// output on stdout.
//
// Every entry carries a "role" field, a timestamp and a "func" caller field
// holding the fully-qualified function name.
func NewLogger(role string) *Logger {
	return newLogger(os.Stderr, role)
}

// NewClientLogger is NewLogger writing to a "logs" file next to the
// executable, for interactive programs that own the terminal.
func NewClientLogger(role string) *Logger {
	// Open log file near the executable
	execPath, _ := os.Executable()
	logPath := filepath.Join(filepath.Dir(execPath), "logs")

	var w io.Writer
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		w = io.Discard // a TUI must not print logs over its own screen
	} else {
		w = logFile
	}

	return newLogger(w, role)
}

// Nop returns a *Logger that discards all log output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithProvider returns a child logger tagged with the provider name.
func (l *Logger) WithProvider(provider string) *Logger {
	return &Logger{l.With().Str("provider", provider).Logger()}
}

// WithContext attaches the logger to ctx for FromContext.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext extracts the zerolog.Logger stored in ctx and returns it as
// a *Logger. If no logger has been attached, zerolog's default logger is
// returned, so this function never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

// Censor masks a username or e-mail for logging: the first and last
// character of the local part survive, the domain is kept.
//
//	Censor("alice@example.com") == "a***e@example.com"
func Censor(username string) string {
	local, domain, hasDomain := strings.Cut(username, "@")

	runes := []rune(local)
	switch {
	case len(runes) == 0:
	case len(runes) <= 2:
		local = strings.Repeat("*", len(runes))
	default:
		local = string(runes[0]) + "***" + string(runes[len(runes)-1])
	}

	if hasDomain {
		return local + "@" + domain
	}
	return local
}
