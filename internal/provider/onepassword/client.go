// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/duo"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/login"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/provider"
	"github.com/MKhiriev/go-vault-access/internal/utils"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/internal/workers"
	"github.com/MKhiriev/go-vault-access/models"
)

const (
	DefaultDomain = "my.1password.com"

	accountEndpoint = "v1/account?attrs=billing,counts,groups,invite,me,settings,tier,user-flags,users,vaults"
	keysetsEndpoint = "v1/account/keysets"
)

// UI is everything a 1Password login may ask the user for.
type UI interface {
	mfa.PasscodeProvider
	mfa.WebAuthnAuthenticator
	duo.UI
}

// Vault is an accessible vault whose key is already in the client's
// keychain.
type Vault struct {
	models.Vault
	keyID string
}

// Client is a logged in 1Password session. It owns the transport until
// Logout.
type Client struct {
	opts       provider.Options
	session    *session
	credential models.Credential
	accountKey accountKey

	mu   sync.Mutex
	keys *keychain.Keychain
}

// Login authenticates credential, including its account key, and returns
// a session bound client. A failed login closes opts.Transport.
func Login(ctx context.Context, opts provider.Options, credential models.Credential, ui UI) (*Client, error) {
	opts, err := opts.Normalize(config.ProviderOnePassword)
	if err != nil {
		return nil, err
	}

	return login.WithTransport(opts.Transport, func() (*Client, error) {
		ak, err := parseAccountKey(credential.AccountKey)
		if err != nil {
			return nil, err
		}

		rest, err := adapter.NewRestClient(opts.Transport, baseURL(opts.Domain))
		if err != nil {
			return nil, err
		}

		deviceID, err := opts.ResolveDeviceID(ctx, utils.NewUUIDGenerator().GenerateCompact)
		if err != nil {
			return nil, err
		}

		credential.Username = strings.TrimSpace(credential.Username)

		l := &loginFlow{
			opts:       opts,
			rest:       rest.WithHeaders(map[string]string{clientHeader: clientID}),
			ui:         ui,
			email:      credential.Username,
			password:   credential.Password,
			accountKey: ak,
			deviceID:   deviceID,
			remember:   mfa.NewRememberMe(opts.Storage, RememberMeKey),
		}

		s, err := login.Run(ctx, opts.Logger, login.DefaultBudget, l.attempt)
		if err != nil {
			return nil, err
		}

		opts.Logger.Info().
			Str("username", logger.Censor(credential.Username)).
			Msg("onepassword login succeeded")

		return &Client{
			opts:       opts,
			session:    s,
			credential: credential,
			accountKey: ak,
		}, nil
	})
}

// Open logs in, decrypts every accessible vault and logs out.
func Open(ctx context.Context, opts provider.Options, credential models.Credential, ui UI) (vault.Result, error) {
	c, err := Login(ctx, opts, credential, ui)
	if err != nil {
		return vault.Result{}, err
	}
	defer func() {
		if lerr := c.Logout(context.WithoutCancel(ctx)); lerr != nil {
			c.opts.Logger.Warn().Err(lerr).Msg("onepassword logout failed")
		}
	}()

	return c.OpenAll(ctx)
}

// ListAllVaults returns the vaults the user can read. Their keys are
// decrypted and cached for OpenVault.
func (c *Client) ListAllVaults(ctx context.Context) ([]Vault, error) {
	keys, err := c.keychain(ctx)
	if err != nil {
		return nil, err
	}

	account, err := getEncrypted[accountInfo](ctx, c.session, accountEndpoint)
	if err != nil {
		return nil, err
	}

	vaults := make([]Vault, 0, len(account.Vaults))
	for _, v := range account.Vaults {
		access, ok := readableAccess(v.Access, keys)
		if !ok {
			c.opts.Logger.Debug().Str("vault", v.UUID).Msg("onepassword vault is not readable, skipped")
			continue
		}

		key, err := openVaultKey(v, access, keys)
		if err != nil {
			return nil, err
		}

		attrs, err := decryptJSON[vaultAttributes](v.Attributes, keys)
		if err != nil {
			return nil, app.Corrupted("onepassword: vault "+v.UUID+" attributes", err)
		}

		vaults = append(vaults, Vault{
			Vault: models.Vault{ID: v.UUID, Name: attrs.Name, Description: attrs.Description},
			keyID: key.ID,
		})
	}

	c.opts.Logger.Debug().Int("vaults", len(vaults)).Msg("onepassword vaults listed")
	return vaults, nil
}

// OpenVault downloads the items of v batch by batch and decrypts them.
// The vault itself is reported as the folder of its accounts.
func (c *Client) OpenVault(ctx context.Context, v Vault) (vault.Result, error) {
	keys, err := c.keychain(ctx)
	if err != nil {
		return vault.Result{}, err
	}
	if _, err = keys.MustGet(v.keyID); err != nil {
		return vault.Result{}, app.Internal("onepassword: vault "+v.ID+" was not listed", err)
	}

	source := func(ctx context.Context, marker string) (vault.Batch, error) {
		if marker == "" {
			marker = "0"
		}
		endpoint := "v1/vault/" + url.PathEscape(v.ID) + "/" + marker + "/items"

		b, err := getEncrypted[itemsBatch](ctx, c.session, endpoint)
		if err != nil {
			return vault.Batch{}, err
		}

		items := make([]vault.Item, 0, len(b.Items))
		for _, it := range b.Items {
			items = append(items, toItem(it))
		}
		return vault.Batch{Items: items, Next: strconv.Itoa(b.ContentVersion), Complete: b.BatchComplete}, nil
	}

	result, err := vault.Stream(ctx, source, itemDecryptor(v.ID, keys))
	if err != nil {
		return vault.Result{}, err
	}
	result.Folders = append(result.Folders, models.Folder{ID: v.ID, Title: v.Name})

	c.opts.Logger.Info().
		Str("vault", v.ID).
		Int("accounts", len(result.Accounts)).
		Int("corrupted", len(result.Failures)).
		Msg("onepassword vault opened")

	return result, nil
}

// OpenAll opens every readable vault, opts.Concurrency at a time.
func (c *Client) OpenAll(ctx context.Context) (vault.Result, error) {
	vaults, err := c.ListAllVaults(ctx)
	if err != nil {
		return vault.Result{}, err
	}

	results, err := workers.Map(ctx, c.opts.Concurrency, vaults, c.OpenVault)
	if err != nil {
		return vault.Result{}, err
	}

	var all vault.Result
	for _, r := range results {
		all.Merge(r)
	}
	return all, nil
}

// Logout signs the session out and releases the transport.
func (c *Client) Logout(ctx context.Context) error {
	defer c.opts.Transport.Close()

	r, err := sendEncrypted[successResponse](ctx, c.session, http.MethodPut, "v1/session/signout", nil)
	if err != nil {
		return err
	}
	if r.Success != 1 {
		return app.Internal("onepassword: failed to sign out", nil)
	}
	return nil
}

// keychain resolves the keysets once per session.
func (c *Client) keychain(ctx context.Context) (*keychain.Keychain, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.keys != nil {
		return c.keys, nil
	}

	r, err := getEncrypted[keysetsResponse](ctx, c.session, keysetsEndpoint)
	if err != nil {
		return nil, err
	}

	keys, err := resolveKeysets(r.Keysets, c.credential, c.accountKey)
	if err != nil {
		return nil, err
	}

	c.opts.Logger.Debug().Int("keys", keys.Len()).Msg("onepassword keysets resolved")
	c.keys = keys
	return keys, nil
}

func baseURL(domain string) string {
	if domain == "" {
		domain = DefaultDomain
	}
	if strings.Contains(domain, "://") {
		return strings.TrimRight(domain, "/") + "/api"
	}
	return "https://" + domain + "/api"
}
