// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lastpass

import (
	"errors"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
)

// mapLoginError turns a final <error/> answer of login.php into the error
// taxonomy.
func mapLoginError(r *loginResponse) error {
	cause := r.errorAttr("cause")

	var err *app.Error
	switch cause {
	case "user_not_exists":
		err = app.BadCredentials("invalid username")
	case "password_invalid":
		err = app.BadCredentials("invalid password")
	case "multifactorresponsefailed":
		err = app.BadMultiFactor("out of band authentication failed")
	case "googleauthfailed", "microsoftauthfailed", "otpfailed":
		err = app.BadMultiFactor("second factor code is incorrect")
	default:
		message := r.errorAttr("message")
		if message == "" {
			message = cause
		}
		if message == "" {
			message = "unknown error"
		}
		err = app.Internal(message, nil)
	}

	return err.WithRequest(r.url, r.statusCode).WithServer(0, cause)
}

// mapKeyError reports a private key that does not open with the password
// derived key as bad credentials; shared folder key failures mean the blob
// is damaged.
func mapKeyError(err error) error {
	var step *keychain.StepError
	if errors.As(err, &step) && step.Root && step.KeyID == privateKeyID {
		return app.New(app.ErrBadCredentials, "lastpass: private key does not decrypt", err)
	}
	return err
}
