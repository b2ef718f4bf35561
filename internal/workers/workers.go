// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when a limit below 1 is given.
const DefaultConcurrency = 4

// Map calls fn for every input with at most limit calls in flight. The
// result of inputs[i] is stored in slot i. On the first error the
// remaining calls see a canceled context and Map returns that error.
func Map[T, R any](ctx context.Context, limit int, inputs []T, fn func(ctx context.Context, input T) (R, error)) ([]R, error) {
	results := make([]R, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(normalize(limit))

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r, err := fn(ctx, input)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func normalize(limit int) int {
	if limit < 1 {
		return DefaultConcurrency
	}
	return limit
}
