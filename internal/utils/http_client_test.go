// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_NotNil(t *testing.T) {
	client := NewHTTPClient(HTTPClientOptions{})

	require.NotNil(t, client)
	require.NotNil(t, client.Client)
}

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient(HTTPClientOptions{})
	client2 := NewHTTPClient(HTTPClientOptions{})

	assert.NotSame(t, client1.Client, client2.Client)
	assert.NotSame(t, client1.GetClient().Jar, client2.GetClient().Jar)
}

func TestNewHTTPClient_AppliesOptions(t *testing.T) {
	client := NewHTTPClient(HTTPClientOptions{Timeout: 5 * time.Second, UserAgent: "vault-test/1.0"})

	assert.Equal(t, 5*time.Second, client.GetClient().Timeout)
	assert.Equal(t, "vault-test/1.0", client.Header.Get("User-Agent"))
}

func TestNewHTTPClient_KeepsCookiesBetweenRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/set" {
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
			return
		}
		c, err := r.Cookie("sid")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(c.Value))
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPClientOptions{})
	defer client.Close()

	_, err := client.R().Get(srv.URL + "/set")
	require.NoError(t, err)

	resp, err := client.R().Get(srv.URL + "/get")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "abc", resp.String())
}
