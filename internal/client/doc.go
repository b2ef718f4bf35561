// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command line application runtime.
//
// It wires the configuration, the secure storage, the HTTP transport and
// the terminal UI to the provider selected in the configuration, opens
// the vault and either browses or exports it.
package client
