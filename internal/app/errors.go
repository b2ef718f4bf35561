// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"errors"
	"fmt"
	"strings"
)

// Kind sentinels. Use errors.Is(err, app.ErrBadCredentials) and friends to
// classify any error returned by the library.
var (
	// ErrBadCredentials means the username, password or account key is wrong.
	ErrBadCredentials = errors.New("bad credentials")

	// ErrBadMultiFactor means the second factor was rejected after all the
	// allowed attempts were used up.
	ErrBadMultiFactor = errors.New("bad multi-factor")

	// ErrCanceledMultiFactor means the user aborted an interactive step.
	ErrCanceledMultiFactor = errors.New("multi-factor canceled")

	// ErrUnsupportedFeature means the server asked for something that is
	// recognised but not implemented (FIDO2 on Proton, several WebAuthn keys).
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrNetwork is a transport level failure: DNS, TLS, timeouts, resets.
	ErrNetwork = errors.New("network error")

	// ErrInvalidResponse means the server answered with something that does
	// not follow the expected schema.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrInternal is a violated invariant or an unexpected server error.
	ErrInternal = errors.New("internal error")

	// ErrVaultCorrupted means integrity verification failed on vault data
	// once the credentials are already known to be good.
	ErrVaultCorrupted = errors.New("vault corrupted")
)

// Error is the concrete error type behind every classified failure.
type Error struct {
	Kind    error
	Message string

	URL           string
	StatusCode    int
	ServerCode    int
	ServerMessage string

	Err error
}

// New returns an *Error of the given kind. err may be nil.
func New(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Newf is New with a formatted message and no cause.
func Newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.URL != "" {
		fmt.Fprintf(&b, " (url: %s", e.URL)
		if e.StatusCode != 0 {
			fmt.Fprintf(&b, ", status: %d", e.StatusCode)
		}
		if e.ServerCode != 0 {
			fmt.Fprintf(&b, ", code: %d", e.ServerCode)
		}
		if e.ServerMessage != "" {
			fmt.Fprintf(&b, ", message: %q", e.ServerMessage)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// WithRequest attaches the failing request URL and HTTP status.
func (e *Error) WithRequest(url string, statusCode int) *Error {
	e.URL = url
	e.StatusCode = statusCode
	return e
}

// WithServer attaches the error code and message reported by the server.
func (e *Error) WithServer(code int, message string) *Error {
	e.ServerCode = code
	e.ServerMessage = message
	return e
}

// BadCredentials, BadMultiFactor and the other helpers below are shorthands
// for New with the matching kind.
func BadCredentials(message string) *Error { return New(ErrBadCredentials, message, nil) }

func BadMultiFactor(message string) *Error { return New(ErrBadMultiFactor, message, nil) }

func Canceled(message string) *Error { return New(ErrCanceledMultiFactor, message, nil) }

func Unsupported(message string) *Error { return New(ErrUnsupportedFeature, message, nil) }

func Internal(message string, err error) *Error { return New(ErrInternal, message, err) }

func InvalidResponse(message string, err error) *Error { return New(ErrInvalidResponse, message, err) }

func Corrupted(message string, err error) *Error { return New(ErrVaultCorrupted, message, err) }

// KindOf returns the kind sentinel of err, or nil when err is not classified.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrCanceledMultiFactor,
		ErrBadCredentials,
		ErrBadMultiFactor,
		ErrUnsupportedFeature,
		ErrNetwork,
		ErrVaultCorrupted,
		ErrInvalidResponse,
		ErrInternal,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return nil
}

// IsUserFacing reports whether err is something the user can fix by
// re-entering input: wrong credentials, a wrong second factor or a cancel.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrBadCredentials) ||
		errors.Is(err, ErrBadMultiFactor) ||
		errors.Is(err, ErrCanceledMultiFactor)
}
