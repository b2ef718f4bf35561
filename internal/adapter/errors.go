// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	// ErrInvalidBaseURL is returned when a RestClient is built with a base URL
	// that is not absolute.
	ErrInvalidBaseURL = errors.New("invalid base url")

	// ErrTransportClosed is returned by Do after Close.
	ErrTransportClosed = errors.New("transport closed")
)
