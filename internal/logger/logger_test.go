// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

// TestNewLogger_RoleField verifies that every log entry produced by a logger
// created with NewLogger contains the expected "role" field.
func TestNewLogger_RoleField(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("test-role")
	l.Logger = l.Output(&buf)

	l.Info().Msg("hello")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "test-role", entry["role"])
	_, hasTime := entry["time"]
	assert.True(t, hasTime, "expected 'time' field in log entry")
}

// TestNewLogger_CallerFieldName verifies that the caller field is named "func".
func TestNewLogger_CallerFieldName(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "caller-role")
	l.Info().Msg("caller")

	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Contains(t, decodeEntry(t, &buf)["func"], "TestNewLogger_CallerFieldName")
}

func TestNewLogger_GlobalLevelIsDebug(t *testing.T) {
	NewLogger("level-role")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNewClientLogger_NotNil(t *testing.T) {
	require.NotNil(t, NewClientLogger("tui"))
}

// TestNop_DiscardsOutput verifies that a Nop logger produces no output.
func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String(), "Nop logger should produce no output")
}

func TestGetChildLogger_InheritsFields(t *testing.T) {
	var buf bytes.Buffer
	parent := newLogger(&buf, "inherited-role")

	child := parent.GetChildLogger()
	assert.NotSame(t, parent, child)
	child.Info().Msg("child message")

	assert.Equal(t, "inherited-role", decodeEntry(t, &buf)["role"])
}

func TestWithProvider_AddsField(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "r").WithProvider("lastpass")
	l.Info().Msg("x")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "lastpass", entry["provider"])
	assert.Equal(t, "r", entry["role"])
}

func TestFromContext_RoundTrip(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	l := newLogger(&buf, "ctx-role")
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from context")
	assert.Equal(t, "ctx-role", decodeEntry(t, &buf)["role"])
}

func TestCensor(t *testing.T) {
	tests := map[string]string{
		"alice@example.com": "a***e@example.com",
		"bob":               "b***b",
		"al@example.com":    "**@example.com",
		"":                  "",
		"@example.com":      "@example.com",
		"jörg":              "j***g",
	}

	for in, want := range tests {
		assert.Equal(t, want, Censor(in), in)
	}
}
