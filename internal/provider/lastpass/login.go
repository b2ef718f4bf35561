// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lastpass

import (
	"context"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/provider"
	"github.com/MKhiriev/go-vault-access/models"
)

const (
	DefaultIterations = 100100

	// maxReplays bounds iteration and server redirects of one login.
	maxReplays = 4
)

type derivedKey struct {
	key  []byte
	hash string
}

type loginFlow struct {
	opts provider.Options
	rest *adapter.RestClient
	ui   UI

	username string
	password string
	deviceID string

	iterations int
	keys       map[int]derivedKey
}

type accountType struct {
	Type int `json:"type"`
}

// run drives login.php until it hands out a session. Iteration and server
// hints replay only the login request.
func (l *loginFlow) run(ctx context.Context) (Session, error) {
	if err := l.checkAccountType(ctx); err != nil {
		return Session{}, err
	}

	l.iterations = DefaultIterations
	for replay := 0; replay <= maxReplays; replay++ {
		r, err := l.request(ctx, nil)
		if err != nil {
			return Session{}, err
		}

		if r.isOK() {
			return l.session(r)
		}

		if n, ok := r.iterationsHint(); ok {
			l.opts.Logger.Debug().Int("iterations", n).Msg("lastpass asked for another iteration count")
			l.iterations = n
			continue
		}

		if server, ok := r.serverHint(); ok {
			next, err := alternateURL(l.rest.BaseURL(), server)
			if err != nil {
				return Session{}, err
			}
			l.opts.Logger.Debug().Str("server", server).Msg("lastpass redirected the login")
			l.rest = l.rest.WithBaseURL(next)
			continue
		}

		switch cause := r.errorAttr("cause"); cause {
		case "googleauthrequired", "microsoftauthrequired", "otprequired":
			return l.loginWithOTP(ctx, cause)
		case "outofbandrequired":
			return l.loginWithOOB(ctx, r)
		}

		return Session{}, mapLoginError(r)
	}

	return Session{}, ErrTooManyReplays
}

func (l *loginFlow) checkAccountType(ctx context.Context) error {
	endpoint := "lmiapi/login/type?username=" + url.QueryEscape(l.username)
	t, err := adapter.GetJSON[accountType](ctx, l.rest, endpoint, nil)
	if err != nil {
		return err
	}
	if t.Type != 0 {
		return ErrAccountFederate
	}
	return nil
}

// key derives the user key and login hash for iterations, once per count.
func (l *loginFlow) key(iterations int) (derivedKey, error) {
	if iterations < 1 {
		iterations = l.iterations
	}
	if k, ok := l.keys[iterations]; ok {
		return k, nil
	}

	root, err := keychain.DeriveRoot(deriveKey, keychain.KDFParams{
		Algorithm:  "pbkdf2-sha256",
		Salt:       []byte(l.username),
		Iterations: iterations,
	}, models.Credential{Username: l.username, Password: l.password})
	if err != nil {
		return derivedKey{}, app.InvalidResponse("lastpass: derive key", err)
	}

	hash, err := loginHash(root.Encryption, l.password, iterations)
	if err != nil {
		return derivedKey{}, app.Internal("lastpass: login hash", err)
	}

	k := derivedKey{key: root.Encryption, hash: hash}
	l.keys[iterations] = k
	return k, nil
}

// request posts one login form with extra on top of the base fields.
func (l *loginFlow) request(ctx context.Context, extra url.Values) (*loginResponse, error) {
	k, err := l.key(l.iterations)
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"method":               {"cli"},
		"xml":                  {"2"},
		"username":             {l.username},
		"hash":                 {k.hash},
		"iterations":           {strconv.Itoa(l.iterations)},
		"includeprivatekeyenc": {"1"},
		"outofbandsupported":   {"1"},
		"uuid":                 {l.deviceID},
		"trustlabel":           {l.opts.Device.Name},
	}
	for name, values := range extra {
		form[name] = values
	}

	resp, err := l.rest.PostForm(ctx, "login.php", form, nil)
	if err != nil {
		return nil, err
	}
	return parseLoginResponse(resp)
}

func (l *loginFlow) session(r *loginResponse) (Session, error) {
	s, err := r.session()
	if err != nil {
		return Session{}, err
	}
	if s.Iterations < 1 {
		s.Iterations = l.iterations
	}
	return s, nil
}

// trust marks the device when the user asked to be remembered.
func (l *loginFlow) trust(ctx context.Context, s Session, rememberMe bool) error {
	if !rememberMe {
		return nil
	}
	return markTrusted(ctx, l.rest, s, l.deviceID, l.opts.Device.Name)
}
