// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

// Signer mutates an outgoing request right before it is sent, typically to
// add an authentication or MAC header computed over the final URL.
type Signer func(req *Request) error

// RestClient sends requests relative to a base URL through a Transport.
// The With* methods return modified copies; the receiver is never changed.
type RestClient struct {
	transport Transport
	baseURL   string
	headers   map[string]string
	cookies   map[string]string
	signer    Signer
}

// NewRestClient returns a client rooted at baseURL. An empty baseURL means
// every endpoint must be absolute.
func NewRestClient(transport Transport, baseURL string) (*RestClient, error) {
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
		}
	}

	return &RestClient{
		transport: transport,
		baseURL:   strings.TrimRight(baseURL, "/"),
		headers:   map[string]string{},
		cookies:   map[string]string{},
	}, nil
}

func (c *RestClient) clone() *RestClient {
	return &RestClient{
		transport: c.transport,
		baseURL:   c.baseURL,
		headers:   maps.Clone(c.headers),
		cookies:   maps.Clone(c.cookies),
		signer:    c.signer,
	}
}

// Transport returns the underlying transport.
func (c *RestClient) Transport() Transport {
	return c.transport
}

// BaseURL returns the base URL without a trailing slash.
func (c *RestClient) BaseURL() string {
	return c.baseURL
}

// WithBaseURL returns a copy rooted at another base URL.
func (c *RestClient) WithBaseURL(baseURL string) *RestClient {
	out := c.clone()
	out.baseURL = strings.TrimRight(baseURL, "/")
	return out
}

// WithHeaders returns a copy that also sends headers on every request.
func (c *RestClient) WithHeaders(headers map[string]string) *RestClient {
	out := c.clone()
	maps.Copy(out.headers, headers)
	return out
}

// WithCookies returns a copy that also sends cookies on every request.
func (c *RestClient) WithCookies(cookies map[string]string) *RestClient {
	out := c.clone()
	maps.Copy(out.cookies, cookies)
	return out
}

// WithSigner returns a copy that signs every request.
func (c *RestClient) WithSigner(signer Signer) *RestClient {
	out := c.clone()
	out.signer = signer
	return out
}

// URL resolves endpoint against the base URL. Absolute endpoints are
// returned unchanged.
func (c *RestClient) URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if endpoint == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// Do sends a request. headers and cookies are merged over the defaults.
func (c *RestClient) Do(
	ctx context.Context,
	method, endpoint string,
	body []byte,
	headers, cookies map[string]string,
) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &Request{
		Method:  method,
		URL:     c.URL(endpoint),
		Body:    body,
		Headers: maps.Clone(c.headers),
		Cookies: maps.Clone(c.cookies),
	}
	maps.Copy(req.Headers, headers)
	maps.Copy(req.Cookies, cookies)

	if c.signer != nil {
		if err := c.signer(req); err != nil {
			return nil, fmt.Errorf("sign %s %s: %w", method, req.URL, err)
		}
	}

	return c.transport.Do(ctx, req)
}

// Get sends a GET request.
func (c *RestClient) Get(ctx context.Context, endpoint string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil, headers, nil)
}

// PostJSON marshals body and POSTs it.
func (c *RestClient) PostJSON(ctx context.Context, endpoint string, body any, headers map[string]string) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPost, endpoint, body, headers)
}

// PutJSON marshals body and PUTs it. A nil body sends no payload.
func (c *RestClient) PutJSON(ctx context.Context, endpoint string, body any, headers map[string]string) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPut, endpoint, body, headers)
}

// PostForm POSTs url-encoded form values.
func (c *RestClient) PostForm(ctx context.Context, endpoint string, form url.Values, headers map[string]string) (*Response, error) {
	h := map[string]string{"Content-Type": ContentTypeForm}
	maps.Copy(h, headers)
	return c.Do(ctx, http.MethodPost, endpoint, []byte(form.Encode()), h, nil)
}

func (c *RestClient) sendJSON(ctx context.Context, method, endpoint string, body any, headers map[string]string) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, app.Internal("encode request body", err)
		}
	}

	h := map[string]string{"Content-Type": ContentTypeJSON}
	maps.Copy(h, headers)
	return c.Do(ctx, method, endpoint, payload, h, nil)
}

// DecodeJSON unmarshals a successful response body into T. Bodies that do
// not parse are reported as app.ErrInvalidResponse.
func DecodeJSON[T any](resp *Response) (T, error) {
	var out T
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, app.InvalidResponse("decode json", err).WithRequest(resp.RequestURL, resp.StatusCode)
	}
	return out, nil
}

// GetJSON sends a GET request, fails on a non-2xx status and decodes the
// body into T.
func GetJSON[T any](ctx context.Context, c *RestClient, endpoint string, headers map[string]string) (T, error) {
	resp, err := c.Get(ctx, endpoint, headers)
	return decodeSuccess[T](resp, err)
}

// PostJSON sends body, fails on a non-2xx status and decodes the response
// into T.
func PostJSON[T any](ctx context.Context, c *RestClient, endpoint string, body any, headers map[string]string) (T, error) {
	resp, err := c.PostJSON(ctx, endpoint, body, headers)
	return decodeSuccess[T](resp, err)
}

func decodeSuccess[T any](resp *Response, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if err = MapHTTPError(resp); err != nil {
		return zero, err
	}
	return DecodeJSON[T](resp)
}
