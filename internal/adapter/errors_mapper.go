// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/app"
)

const maxErrorBody = 256

// MapHTTPError turns a non-2xx response into a classified error. Provider
// clients call it after their own error body parsing found nothing.
func MapHTTPError(resp *Response) error {
	if resp.IsSuccess() {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body))
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode)
	}

	kind := app.ErrInternal
	if resp.StatusCode == http.StatusBadGateway ||
		resp.StatusCode == http.StatusServiceUnavailable ||
		resp.StatusCode == http.StatusGatewayTimeout {
		kind = app.ErrNetwork
	}

	return app.New(kind, body, nil).WithRequest(resp.RequestURL, resp.StatusCode)
}

// mapTransportError classifies a failure to get any response at all.
// Cancellation or expiry of the caller's ctx is passed through untouched;
// a client-side request timeout is a network error.
func mapTransportError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}

	return app.New(app.ErrNetwork, "request failed", err).WithRequest(url, 0)
}
