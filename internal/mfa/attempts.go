// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mfa

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

// Submit sends an answer. accepted=false means the server said "invalid"
// and the user may try again; an error aborts.
type Submit[T any] func(ctx context.Context, answer T) (accepted bool, err error)

// CollectPasscode asks for a passcode and submits it, up to maxAttempts
// times. Exhausting the attempts is app.ErrBadMultiFactor.
func CollectPasscode(
	ctx context.Context,
	ui PasscodeProvider,
	prompt PasscodePrompt,
	maxAttempts int,
	submit Submit[Passcode],
) (Passcode, error) {
	return withAttempts(ctx, maxAttempts, "passcode",
		func(ctx context.Context, attempt int) (Passcode, error) {
			p := prompt
			p.Attempt = attempt
			return ui.ProvidePasscode(ctx, p)
		},
		submit)
}

// CollectExtraPassword asks for the extra password and submits it, up to
// maxAttempts times.
func CollectExtraPassword(
	ctx context.Context,
	ui ExtraPasswordProvider,
	maxAttempts int,
	submit Submit[string],
) error {
	_, err := withAttempts(ctx, maxAttempts, "extra password", ui.ProvideExtraPassword, submit)
	return err
}

func withAttempts[T any](
	ctx context.Context,
	maxAttempts int,
	what string,
	ask func(ctx context.Context, attempt int) (T, error),
	submit Submit[T],
) (T, error) {
	var zero T

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		answer, err := ask(ctx, attempt)
		if err != nil {
			return zero, MapCancel(err)
		}

		accepted, err := submit(ctx, answer)
		if err != nil {
			return zero, err
		}
		if accepted {
			return answer, nil
		}
	}

	return zero, app.BadMultiFactor(fmt.Sprintf("%s rejected %d times", what, maxAttempts))
}
