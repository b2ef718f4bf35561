// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities used by the
// providers and the command line program: tolerant base64 and hex codecs,
// device identifiers, the resty based HTTP client and JSON output.
package utils
