// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mfa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultPollInterval    = time.Second
	DefaultMaxPollAttempts = 100
)

// PollConfig bounds a polling loop. Zero fields take the defaults.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

func (c PollConfig) normalized() PollConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxPollAttempts
	}
	return c
}

var errPending = errors.New("pending")

// Check performs one status request. It returns done=false while the
// status is still pending; an error stops polling immediately.
type Check[T any] func(ctx context.Context, attempt int) (value T, done bool, err error)

// Poll calls check until it reports done, waiting Interval between calls,
// at most MaxAttempts times in total. When every call was pending it fails
// with ErrPollLimit.
func Poll[T any](ctx context.Context, cfg PollConfig, check Check[T]) (T, error) {
	cfg = cfg.normalized()

	var (
		out     T
		attempt int
	)

	backoff := retry.WithMaxRetries(uint64(cfg.MaxAttempts-1), retry.NewConstant(cfg.Interval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		value, done, err := check(ctx, attempt)
		if err != nil {
			return err
		}
		if !done {
			return retry.RetryableError(errPending)
		}
		out = value
		return nil
	})

	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, errPending):
		var zero T
		return zero, fmt.Errorf("%w after %d attempts", ErrPollLimit, attempt)
	default:
		var zero T
		return zero, err
	}
}
