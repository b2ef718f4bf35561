// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package login

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/logger"
)

// DefaultBudget is the number of attempts Run makes by default.
const DefaultBudget = 3

// Attempt performs one full login attempt. attempt starts at 1.
type Attempt[T any] func(ctx context.Context, attempt int) Outcome[T]

// Run calls attempt until it succeeds, fails or budget attempts have
// asked for a retry. Running out of budget is an app.ErrInternal carrying
// the last retry reason.
func Run[T any](ctx context.Context, log *logger.Logger, budget int, attempt Attempt[T]) (T, error) {
	var zero T
	if budget < 1 {
		budget = DefaultBudget
	}

	lastReason := ""
	for i := 1; i <= budget; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		outcome := attempt(ctx, i)
		switch {
		case outcome.IsSuccess():
			log.Debug().Int("attempt", i).Msg("login succeeded")
			return outcome.Value(), nil
		case outcome.IsRetry():
			lastReason = outcome.Reason()
			log.Info().Int("attempt", i).Str("reason", lastReason).Msg("login will be retried")
		default:
			log.Debug().Int("attempt", i).Err(outcome.Err()).Msg("login failed")
			return zero, outcome.Err()
		}
	}

	return zero, app.Internal(fmt.Sprintf("login retried %d times, last reason: %s", budget, lastReason), nil)
}

// WithTransport runs fn and closes transport when fn fails, so an
// unsuccessful login never leaks connections. On success the caller owns
// the transport through the returned session.
func WithTransport[T any](transport adapter.Transport, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			_ = transport.Close()
			panic(r)
		}
		if err != nil {
			_ = transport.Close()
		}
	}()

	return fn()
}
