// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the error taxonomy shared by every provider adapter
// and by the core login, key and vault packages.
//
// Every failure that leaves the library is matchable with [errors.Is] against
// one of the Err* kind sentinels. Errors built with [New] additionally carry
// the request context (URL, HTTP status, server code and message) that
// produced them, so a caller can diagnose a failure without retrying it.
package app
