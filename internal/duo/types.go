// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package duo

import (
	"context"
)

//go:generate mockgen -source=types.go -destination=../mock/duo_ui_mock.go -package=mock -mock_names=UI=MockDuoUI

// Factor is a Duo authentication method.
type Factor int

const (
	FactorPush Factor = iota + 1
	FactorCall
	FactorPasscode
	FactorSendPasscodesBySMS
)

func (f Factor) String() string {
	switch f {
	case FactorPush:
		return "push"
	case FactorCall:
		return "call"
	case FactorPasscode:
		return "passcode"
	case FactorSendPasscodesBySMS:
		return "sms"
	}
	return "unknown"
}

// parameter is the value the prompt endpoints expect in "factor".
func (f Factor) parameter() string {
	switch f {
	case FactorPush:
		return "Duo Push"
	case FactorCall:
		return "Phone Call"
	case FactorPasscode:
		return "Passcode"
	case FactorSendPasscodesBySMS:
		return "sms"
	}
	return ""
}

// Device is a phone or token enrolled with Duo.
type Device struct {
	ID      string
	Name    string
	Factors []Factor
}

// Choice is what the user picked.
type Choice struct {
	Device     Device
	Factor     Factor
	RememberMe bool
}

// Status classifies a status message shown to the user.
type Status int

const (
	StatusInfo Status = iota + 1
	StatusSuccess
	StatusError
)

// Result is the outcome of a successful Duo authentication.
type Result struct {
	// Code is the token handed back to the provider: "cookie:app" for V1,
	// the OIDC duo_code for V4.
	Code       string
	State      string
	RememberMe bool
}

// UI is the interactive part of the Duo flow. Choose and passcode
// requests return mfa.ErrCanceled when the user backs out.
type UI interface {
	ChooseDuoFactor(ctx context.Context, devices []Device) (Choice, error)
	ProvideDuoPasscode(ctx context.Context, device Device) (string, error)
	UpdateDuoStatus(status Status, text string)
}
