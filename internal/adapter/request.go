// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"net/http"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Request is a single HTTP request. URL must be absolute.
type Request struct {
	Method  string
	URL     string
	Body    []byte
	Headers map[string]string
	Cookies map[string]string
}

// Response is what a Transport returns.
type Response struct {
	// RequestURL is the URL that was requested.
	RequestURL string
	// FinalURL differs from RequestURL when redirects were followed.
	FinalURL string

	StatusCode int
	Headers    http.Header
	Cookies    map[string]string
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Cookie returns the value of a cookie set by the response.
func (r *Response) Cookie(name string) (string, bool) {
	v, ok := r.Cookies[name]
	return v, ok
}
