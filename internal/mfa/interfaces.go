// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mfa

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/mfa_ui_mock.go -package=mock

// Passcode is what the user typed for a one-time passcode challenge.
type Passcode struct {
	Code       string
	RememberMe bool
}

// PasscodePrompt describes the passcode being asked for.
type PasscodePrompt struct {
	Factor  Factor
	Method  string
	Attempt int
}

// OOBAction is the user's answer to an out-of-band challenge.
type OOBAction int

const (
	// OOBWait means the user approves on the device and the client polls.
	OOBWait OOBAction = iota + 1
	// OOBPasscode means the user prefers to type a code from the device.
	OOBPasscode
)

// OOBResult is the answer to ApproveOutOfBand.
type OOBResult struct {
	Action     OOBAction
	Passcode   string
	RememberMe bool
}

// Assertion is a signed WebAuthn assertion.
type Assertion struct {
	ClientData        string
	KeyHandle         string
	Signature         string
	AuthenticatorData string
	UserHandle        string
}

// Each interface below covers one concern. UI implementations return
// ErrCanceled when the user backs out.

// PasscodeProvider collects one-time passcodes.
type PasscodeProvider interface {
	ProvidePasscode(ctx context.Context, prompt PasscodePrompt) (Passcode, error)
}

// OOBApprover asks the user to approve on another device.
type OOBApprover interface {
	ApproveOutOfBand(ctx context.Context, challenge OutOfBand) (OOBResult, error)
}

// WebAuthnAuthenticator produces a hardware assertion over a challenge.
type WebAuthnAuthenticator interface {
	Assert(ctx context.Context, challenge HardwareAssertion) (Assertion, error)
}

// CaptchaSolver solves a human verification page and returns its token.
type CaptchaSolver interface {
	SolveCaptcha(ctx context.Context, url, humanVerificationToken string) (string, error)
}

// ExtraPasswordProvider collects a second static password.
type ExtraPasswordProvider interface {
	ProvideExtraPassword(ctx context.Context, attempt int) (string, error)
}

// UI composes every capability. Callers that support only some of them
// can embed a type that returns ErrCanceled for the rest.
type UI interface {
	PasscodeProvider
	OOBApprover
	WebAuthnAuthenticator
	CaptchaSolver
	ExtraPasswordProvider
}
