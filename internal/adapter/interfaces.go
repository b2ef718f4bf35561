// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport boundary between provider clients
// and the network.
//
// The primary abstraction is [Transport], which executes one HTTP request and
// returns the raw response. The package ships a resty based implementation
// ([NewHTTPTransport]) and [RestClient], a small convenience layer that adds a
// base URL, default headers and cookies, and an optional request [Signer].
//
// Transport level failures are returned as [app.ErrNetwork]. An HTTP error
// status is not an error at this level: the response is returned as is so that
// provider clients can interpret their own error bodies. [MapHTTPError] turns a
// non-2xx response into a classified error when nothing more specific applies.
package adapter

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Transport executes HTTP requests for a single session. Implementations own
// their connections; Close releases them and must be safe to call more than
// once.
type Transport interface {
	// Do sends req and returns the response. A non-2xx status is returned as
	// a response, not as an error.
	Do(ctx context.Context, req *Request) (*Response, error)

	// Close releases the connections held by the transport.
	Close() error
}
