// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package login

import (
	"errors"
	"fmt"
)

type outcomeKind int

const (
	kindFatal outcomeKind = iota
	kindSuccess
	kindRetry
)

// Outcome is the result of one login attempt.
type Outcome[T any] struct {
	kind   outcomeKind
	value  T
	reason string
	err    error
}

// Success ends the loop with value.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{kind: kindSuccess, value: value}
}

// Retry asks for another attempt.
func Retry[T any](reason string) Outcome[T] {
	return Outcome[T]{kind: kindRetry, reason: reason}
}

// Fatal ends the loop with err.
func Fatal[T any](err error) Outcome[T] {
	return Outcome[T]{kind: kindFatal, err: err}
}

// From builds an Outcome from a value and an error. A *RetryError anywhere
// in err's chain becomes Retry, any other error Fatal.
func From[T any](value T, err error) Outcome[T] {
	if err == nil {
		return Success(value)
	}

	var retry *RetryError
	if errors.As(err, &retry) {
		return Retry[T](retry.Reason)
	}
	return Fatal[T](err)
}

func (o Outcome[T]) IsSuccess() bool { return o.kind == kindSuccess }
func (o Outcome[T]) IsRetry() bool   { return o.kind == kindRetry }
func (o Outcome[T]) IsFatal() bool   { return o.kind == kindFatal }

// Value returns the session of a successful outcome.
func (o Outcome[T]) Value() T { return o.value }

// Reason returns the retry reason.
func (o Outcome[T]) Reason() string { return o.reason }

// Err returns the error of a fatal outcome.
func (o Outcome[T]) Err() error { return o.err }

func (o Outcome[T]) String() string {
	switch o.kind {
	case kindSuccess:
		return "success"
	case kindRetry:
		return "retry: " + o.reason
	}
	return fmt.Sprintf("fatal: %v", o.err)
}

// RetryError is returned from deep inside a login attempt to request a
// fresh attempt.
type RetryError struct {
	Reason string
}

func (e *RetryError) Error() string {
	return "login must be restarted: " + e.Reason
}

// RestartLogin returns a *RetryError with reason.
func RestartLogin(reason string) error {
	return &RetryError{Reason: reason}
}
