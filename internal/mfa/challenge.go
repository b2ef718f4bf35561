// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mfa

// Kind discriminates the Challenge variants.
type Kind int

const (
	KindOneTimePasscode Kind = iota + 1
	KindOutOfBand
	KindHardwareAssertion
	KindExtraPassword
	KindRememberToken
)

func (k Kind) String() string {
	switch k {
	case KindOneTimePasscode:
		return "one-time-passcode"
	case KindOutOfBand:
		return "out-of-band"
	case KindHardwareAssertion:
		return "hardware-assertion"
	case KindExtraPassword:
		return "extra-password"
	case KindRememberToken:
		return "remember-token"
	}
	return "unknown"
}

// Challenge is exactly one of the variant types below.
type Challenge interface {
	Kind() Kind
	isChallenge()
}

// OneTimePasscode asks for a TOTP or similar code.
type OneTimePasscode struct {
	// Factor is the server's name of the passcode factor.
	Factor Factor
}

// OutOfBand asks the user to approve the login elsewhere.
type OutOfBand struct {
	// Devices lists what the server reports; empty when it only names a
	// method ("LastPass Authenticator").
	Devices []Device
	// Factor is the factor chosen for this attempt, if any.
	Factor Factor
	// Method is the human readable channel name.
	Method string
}

// Device is one enrolled out-of-band device.
type Device struct {
	ID      string
	Name    string
	Factors []Factor
}

// HardwareAssertion asks a security key to sign Challenge.
type HardwareAssertion struct {
	Challenge  string
	RelyingID  string
	KeyHandles []string
}

// ExtraPassword asks for a second static password proven through SRP.
type ExtraPassword struct {
	Version         int
	Modulus         []byte
	ServerEphemeral []byte
	Salt            []byte
	SessionID       string
}

// RememberToken is a stored token offered instead of an interactive
// factor.
type RememberToken struct {
	Token string
}

func (OneTimePasscode) Kind() Kind   { return KindOneTimePasscode }
func (OutOfBand) Kind() Kind         { return KindOutOfBand }
func (HardwareAssertion) Kind() Kind { return KindHardwareAssertion }
func (ExtraPassword) Kind() Kind     { return KindExtraPassword }
func (RememberToken) Kind() Kind     { return KindRememberToken }

func (OneTimePasscode) isChallenge()   {}
func (OutOfBand) isChallenge()         {}
func (HardwareAssertion) isChallenge() {}
func (ExtraPassword) isChallenge()     {}
func (RememberToken) isChallenge()     {}

