// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package mfa holds the provider independent parts of second factor
// negotiation: the challenge variants a server can issue, the factor
// priority tables, the remember-me shortcut, bounded status polling, the
// repeated-condition guard and the UI capability interfaces a caller
// implements to answer interactive challenges.
//
// Providers drive the state machine themselves; this package gives every
// step one implementation so that attempt budgets, cancellation and
// polling behave the same for all of them.
package mfa
