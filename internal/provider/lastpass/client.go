// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lastpass

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/duo"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/login"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/provider"
	"github.com/MKhiriev/go-vault-access/internal/utils"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/models"
)

const (
	DefaultDomain = "lastpass.com"

	sessionCookie = "PHPSESSID"
	vaultEndpoint = "getaccts.php?requestsrc=cli&mobile=1&hasplugin=3.0.23"
)

// UI is everything a LastPass login may ask the user for.
type UI interface {
	mfa.PasscodeProvider
	mfa.OOBApprover
	duo.UI
}

// Session is what login.php hands out.
type Session struct {
	ID         string
	Token      string
	PrivateKey string
	Iterations int
}

// Client is a logged in LastPass session. It owns the transport until
// Logout.
type Client struct {
	opts    provider.Options
	rest    *adapter.RestClient
	session Session
	key     []byte
}

// Login authenticates credential and returns a session bound client.
// A failed login closes opts.Transport.
func Login(ctx context.Context, opts provider.Options, credential models.Credential, ui UI) (*Client, error) {
	opts, err := opts.Normalize(config.ProviderLastPass)
	if err != nil {
		return nil, err
	}

	return login.WithTransport(opts.Transport, func() (*Client, error) {
		rest, err := adapter.NewRestClient(opts.Transport, baseURL(opts.Domain))
		if err != nil {
			return nil, err
		}

		deviceID, err := opts.ResolveDeviceID(ctx, utils.NewUUIDGenerator().GenerateCompact)
		if err != nil {
			return nil, err
		}

		l := &loginFlow{
			opts:     opts,
			rest:     rest,
			ui:       ui,
			username: strings.ToLower(strings.TrimSpace(credential.Username)),
			password: credential.Password,
			deviceID: deviceID,
			keys:     map[int]derivedKey{},
		}

		session, err := l.run(ctx)
		if err != nil {
			return nil, err
		}

		key, err := l.key(session.Iterations)
		if err != nil {
			return nil, err
		}

		opts.Logger.Info().
			Str("username", logger.Censor(l.username)).
			Int("iterations", session.Iterations).
			Msg("lastpass login succeeded")

		return &Client{
			opts:    opts,
			rest:    l.rest.WithCookies(sessionCookies(session)),
			session: session,
			key:     key.key,
		}, nil
	})
}

// Open logs in, downloads and decrypts the vault and logs out.
func Open(ctx context.Context, opts provider.Options, credential models.Credential, ui UI) (vault.Result, error) {
	c, err := Login(ctx, opts, credential, ui)
	if err != nil {
		return vault.Result{}, err
	}
	defer func() {
		if lerr := c.Logout(context.WithoutCancel(ctx)); lerr != nil {
			c.opts.Logger.Warn().Err(lerr).Msg("lastpass logout failed")
		}
	}()

	return c.OpenVault(ctx)
}

// Session returns the session issued at login.
func (c *Client) Session() Session {
	return c.session
}

// DownloadBlob fetches the raw vault blob.
func (c *Client) DownloadBlob(ctx context.Context) ([]byte, error) {
	resp, err := c.rest.Get(ctx, vaultEndpoint, nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, adapter.MapHTTPError(resp)
	}

	blob, err := utils.DecodeBase64(string(resp.Body))
	if err != nil {
		return nil, app.InvalidResponse("lastpass: vault blob", err).WithRequest(resp.RequestURL, resp.StatusCode)
	}
	return blob, nil
}

// OpenVault downloads and decrypts the vault.
func (c *Client) OpenVault(ctx context.Context) (vault.Result, error) {
	blob, err := c.DownloadBlob(ctx)
	if err != nil {
		return vault.Result{}, err
	}
	if err = ctx.Err(); err != nil {
		return vault.Result{}, err
	}

	result, err := parseVault(blob, c.key, c.session.PrivateKey)
	if err != nil {
		return vault.Result{}, err
	}

	c.opts.Logger.Info().
		Int("accounts", len(result.Accounts)).
		Int("folders", len(result.Folders)).
		Int("corrupted", len(result.Failures)).
		Msg("lastpass vault opened")

	return result, nil
}

// Logout ends the session and releases the transport.
func (c *Client) Logout(ctx context.Context) error {
	defer c.opts.Transport.Close()

	resp, err := c.rest.PostForm(ctx, "logout.php", url.Values{
		"method":     {"cli"},
		"noredirect": {"1"},
	}, nil)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return adapter.MapHTTPError(resp)
	}
	return nil
}

// markTrusted registers the device so the next login skips the second
// factor.
func markTrusted(ctx context.Context, rest *adapter.RestClient, session Session, deviceID, label string) error {
	resp, err := rest.WithCookies(sessionCookies(session)).PostForm(ctx, "trust.php", url.Values{
		"uuid":       {deviceID},
		"trustlabel": {label},
		"token":      {session.Token},
	}, nil)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return adapter.MapHTTPError(resp)
	}
	return nil
}

func sessionCookies(s Session) map[string]string {
	return map[string]string{sessionCookie: escapeData(s.ID)}
}

// escapeData percent-encodes everything but the RFC 3986 unreserved set.
func escapeData(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func baseURL(domain string) string {
	if domain == "" {
		domain = DefaultDomain
	}
	if strings.Contains(domain, "://") {
		return strings.TrimRight(domain, "/")
	}
	return "https://" + domain
}

// alternateURL keeps the scheme of current and swaps the host for server.
func alternateURL(current, server string) (string, error) {
	u, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("lastpass: parse base url: %w", err)
	}
	return u.Scheme + "://" + server, nil
}
