// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs independent jobs, such as per-vault downloads,
// concurrently under a limit, with one output slot per input.
package workers
