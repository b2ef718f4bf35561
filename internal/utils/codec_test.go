// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64(t *testing.T) {
	want := []byte{0xfb, 0xff, 0xfe, 'a'}

	for _, in := range []string{"+//+YQ==", "+//+YQ", "-__-YQ", "-__-YQ==", " +//+YQ==\n"} {
		got, err := DecodeBase64(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := DecodeBase64("not base64!")
	assert.Error(t, err)
}

func TestEncodeBase64(t *testing.T) {
	assert.Equal(t, "+//+YQ==", EncodeBase64([]byte{0xfb, 0xff, 0xfe, 'a'}))
	assert.Equal(t, "-__-YQ", EncodeBase64URL([]byte{0xfb, 0xff, 0xfe, 'a'}))
}

func TestDecodeHex(t *testing.T) {
	got, err := DecodeHex("DEADbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, got)

	_, err = DecodeHex("xyz")
	assert.Error(t, err)
}
