// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protonpass

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/login"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/provider"
	"github.com/MKhiriev/go-vault-access/internal/vault"
	"github.com/MKhiriev/go-vault-access/internal/workers"
	"github.com/MKhiriev/go-vault-access/models"
)

const (
	DefaultBaseURL = "https://pass-api.proton.me"

	appVersionHeader = "X-Pm-Appversion"
	appVersion       = "android-pass@1.27.1"

	targetTypeVault = 1
)

// UI is everything a Proton Pass login may ask the user for.
type UI interface {
	mfa.PasscodeProvider
	mfa.CaptchaSolver
	mfa.ExtraPasswordProvider
}

// Vault is a vault share whose key is in the client's keychain.
type Vault struct {
	models.Vault
}

// Client is a logged in Proton Pass session. It owns the transport until
// Logout.
type Client struct {
	opts    provider.Options
	session *session
	// keys holds the vault keys by share id.
	keys *keychain.Keychain

	mu     sync.Mutex
	vaults map[string]Vault
}

// Login authenticates credential, reusing the session stored by an
// earlier run when it is still good. A failed login closes
// opts.Transport.
func Login(ctx context.Context, opts provider.Options, credential models.Credential, ui UI) (*Client, error) {
	opts, err := opts.Normalize(config.ProviderProtonPass)
	if err != nil {
		return nil, err
	}

	return login.WithTransport(opts.Transport, func() (*Client, error) {
		rest, err := adapter.NewRestClient(opts.Transport, baseURL(opts.Domain))
		if err != nil {
			return nil, err
		}

		f := &loginFlow{
			opts:     opts,
			rest:     rest.WithHeaders(map[string]string{appVersionHeader: appVersion}),
			ui:       ui,
			username: strings.TrimSpace(credential.Username),
			password: credential.Password,
		}

		s, err := f.run(ctx)
		if err != nil {
			return nil, err
		}

		opts.Logger.Info().
			Str("username", logger.Censor(f.username)).
			Msg("protonpass login succeeded")

		return &Client{
			opts:    opts,
			session: s,
			keys:    keychain.New(),
			vaults:  map[string]Vault{},
		}, nil
	})
}

// Open logs in, decrypts every vault and logs out.
func Open(ctx context.Context, opts provider.Options, credential models.Credential, ui UI) (vault.Result, error) {
	c, err := Login(ctx, opts, credential, ui)
	if err != nil {
		return vault.Result{}, err
	}
	defer func() {
		if lerr := c.Logout(context.WithoutCancel(ctx)); lerr != nil {
			c.opts.Logger.Warn().Err(lerr).Msg("protonpass logout failed")
		}
	}()

	return c.OpenAll(ctx)
}

// ListAllVaults returns every vault share with its key decrypted and
// cached for OpenVault.
func (c *Client) ListAllVaults(ctx context.Context) ([]Vault, error) {
	shares, err := c.vaultShares(ctx)
	if err != nil {
		return nil, err
	}
	return c.openShares(ctx, shares)
}

// OpenVault downloads the items of v page by page and decrypts the
// logins. The vault itself is reported as the folder of its accounts.
func (c *Client) OpenVault(ctx context.Context, v Vault) (vault.Result, error) {
	key, err := c.keys.MustGet(v.ID)
	if err != nil {
		return vault.Result{}, app.Internal("protonpass: vault "+v.ID+" was not listed", err)
	}

	source := func(ctx context.Context, marker string) (vault.Batch, error) {
		endpoint := "pass/v1/share/" + url.PathEscape(v.ID) + "/item"
		if marker != "" {
			endpoint += "?" + url.Values{"Since": {marker}}.Encode()
		}

		r, err := getJSON[itemsResponse](ctx, c.session.rest, endpoint)
		if err != nil {
			return vault.Batch{}, err
		}

		items := make([]vault.Item, 0, len(r.Items.RevisionsData))
		for _, it := range r.Items.RevisionsData {
			items = append(items, toItem(it))
		}

		var next string
		if r.Items.LastToken != nil {
			next = *r.Items.LastToken
		}
		return vault.Batch{Items: items, Next: next}, nil
	}

	result, err := vault.Stream(ctx, source, itemDecryptor(v.ID, key.Encryption))
	if err != nil {
		return vault.Result{}, err
	}
	result.Folders = append(result.Folders, models.Folder{ID: v.ID, Title: v.Name})

	c.opts.Logger.Info().
		Str("vault", v.ID).
		Int("accounts", len(result.Accounts)).
		Int("corrupted", len(result.Failures)).
		Msg("protonpass vault opened")

	return result, nil
}

// OpenAll opens every vault, opts.Concurrency at a time.
func (c *Client) OpenAll(ctx context.Context) (vault.Result, error) {
	shares, err := c.vaultShares(ctx)
	if err != nil {
		return vault.Result{}, err
	}
	if len(shares) == 0 {
		return vault.Result{}, app.Internal("protonpass: expected at least one vault share", nil)
	}

	vaults, err := c.openShares(ctx, shares)
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

// DownloadVault opens the vault with the given share id. An unknown id is
// ErrVaultNotFound.
func (c *Client) DownloadVault(ctx context.Context, vaultID string) (vault.Result, error) {
	v, err := c.vaultByID(ctx, vaultID)
	if err != nil {
		return vault.Result{}, err
	}
	return c.OpenVault(ctx, v)
}

// GetItem decrypts one item. Unknown vaults and items are ErrVaultNotFound
// and ErrItemNotFound, deleted items ErrItemDeleted and anything but a
// login ErrUnsupportedItem.
func (c *Client) GetItem(ctx context.Context, vaultID, itemID string) (models.Account, error) {
	v, err := c.vaultByID(ctx, vaultID)
	if err != nil {
		return models.Account{}, err
	}

	endpoint := "pass/v1/share/" + url.PathEscape(v.ID) + "/item/" + url.PathEscape(itemID)
	resp, err := c.session.rest.Get(ctx, endpoint, nil)
	if err != nil {
		return models.Account{}, err
	}
	if isInvalidID(resp) {
		return models.Account{}, ErrItemNotFound
	}
	r, err := decode[itemResponse](resp, nil)
	if err != nil {
		return models.Account{}, err
	}

	if r.Item.State != itemStateActive {
		return models.Account{}, ErrItemDeleted
	}

	key, err := c.keys.MustGet(v.ID)
	if err != nil {
		return models.Account{}, app.Internal("protonpass: vault "+v.ID+" key", err)
	}

	account, err := decryptItem(r.Item, key.Encryption, v.ID)
	if errors.Is(err, vault.ErrSkip) {
		return models.Account{}, ErrUnsupportedItem
	}
	if err != nil {
		return models.Account{}, &vault.ItemError{ItemID: itemID, Err: err}
	}
	return account, nil
}

// Logout releases the transport. The server session stays valid and is
// reused by the next Login.
func (c *Client) Logout(ctx context.Context) error {
	c.opts.Logger.Debug().Msg("protonpass transport released")
	return c.opts.Transport.Close()
}

func (c *Client) vaultShares(ctx context.Context) ([]share, error) {
	r, err := getJSON[sharesResponse](ctx, c.session.rest, "pass/v1/share")
	if err != nil {
		return nil, err
	}

	shares := make([]share, 0, len(r.Shares))
	for _, s := range r.Shares {
		if s.TargetType == targetTypeVault {
			shares = append(shares, s)
		}
	}
	return shares, nil
}

// vaultByID returns an already opened vault or fetches its share.
func (c *Client) vaultByID(ctx context.Context, vaultID string) (Vault, error) {
	c.mu.Lock()
	v, ok := c.vaults[vaultID]
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	resp, err := c.session.rest.Get(ctx, "pass/v1/share/"+url.PathEscape(vaultID), nil)
	if err != nil {
		return Vault{}, err
	}
	if isInvalidID(resp) {
		return Vault{}, ErrVaultNotFound
	}
	r, err := decode[shareResponse](resp, nil)
	if err != nil {
		return Vault{}, err
	}

	vaults, err := c.openShares(ctx, []share{r.Share})
	if err != nil {
		return Vault{}, err
	}
	return vaults[0], nil
}

// openedShare is the output of one parallel openShare call.
type openedShare struct {
	vault Vault
	key   *keychain.Key
}

// openShares decrypts the share keys and vault contents in parallel. The
// keychain is only read during the fan-out; new keys and vaults are
// cached once every share is open.
func (c *Client) openShares(ctx context.Context, shares []share) ([]Vault, error) {
	opened, err := workers.Map(ctx, c.opts.Concurrency, shares, c.openShare)
	if err != nil {
		return nil, err
	}

	vaults := make([]Vault, 0, len(opened))
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range opened {
		if err = c.keys.Add(o.key); err != nil {
			return nil, app.Internal("protonpass: cache vault key", err)
		}
		c.vaults[o.vault.ID] = o.vault
		vaults = append(vaults, o.vault)
	}
	return vaults, nil
}

func (c *Client) openShare(ctx context.Context, s share) (openedShare, error) {
	key, ok := c.keys.Get(s.ShareID)
	if !ok {
		r, err := getJSON[shareKeysResponse](ctx, c.session.rest, "pass/v1/share/"+url.PathEscape(s.ShareID)+"/key")
		if err != nil {
			return openedShare{}, err
		}

		material, err := c.session.openVaultKey(s.ShareID, r.ShareKeys.Keys)
		if err != nil {
			return openedShare{}, err
		}
		key = &keychain.Key{ID: s.ShareID, Encryption: material}
	}

	content, err := openGCM(key.Encryption, s.Content, adVaultContent)
	if err != nil {
		return openedShare{}, app.Corrupted("protonpass: vault "+s.ShareID+" content", err)
	}
	info, err := parseVaultContent(content)
	if err != nil {
		return openedShare{}, app.Corrupted("protonpass: vault "+s.ShareID+" content", err)
	}

	return openedShare{
		vault: Vault{Vault: models.Vault{ID: s.ShareID, Name: info.Name, Description: info.Description}},
		key:   key,
	}, nil
}

func baseURL(domain string) string {
	switch {
	case domain == "":
		return DefaultBaseURL
	case strings.Contains(domain, "://"):
		return strings.TrimRight(domain, "/")
	}
	return "https://" + domain
}
