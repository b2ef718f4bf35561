// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/utils"
)

type httpTransport struct {
	client *utils.HTTPClient
	closed atomic.Bool

	logger *logger.Logger
}

// NewHTTPTransport constructs the resty implementation of [Transport].
// Every transport has its own connection pool and cookie jar, so one
// transport must be used per login session.
func NewHTTPTransport(adapterCfg config.Adapter, logger *logger.Logger) Transport {
	client := utils.NewHTTPClient(utils.HTTPClientOptions{
		Timeout:            adapterCfg.RequestTimeout,
		UserAgent:          adapterCfg.UserAgent,
		InsecureSkipVerify: adapterCfg.InsecureSkipVerify,
	})

	return &httpTransport{client: client, logger: logger}
}

// Do implements [Transport].
func (h *httpTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	if h.closed.Load() {
		return nil, ErrTransportClosed
	}

	r := h.client.R().SetContext(ctx)
	for name, value := range req.Headers {
		r.SetHeader(name, value)
	}
	for name, value := range req.Cookies {
		r.SetCookie(&http.Cookie{Name: name, Value: value})
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		h.logger.Debug().Err(err).Str("method", req.Method).Str("url", req.URL).Msg("request failed")
		return nil, mapTransportError(ctx, req.URL, err)
	}

	h.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", resp.StatusCode()).
		Dur("took", resp.Time()).
		Msg("request done")

	cookies := make(map[string]string)
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c.Value
	}

	finalURL := req.URL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &Response{
		RequestURL: req.URL,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Cookies:    cookies,
		Body:       resp.Body(),
	}, nil
}

// Close implements [Transport].
func (h *httpTransport) Close() error {
	if h.closed.CompareAndSwap(false, true) {
		h.client.Close()
	}
	return nil
}
