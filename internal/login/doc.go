// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package login is the generic login loop shared by every provider.
//
// A provider implements one login attempt as an Attempt returning an
// Outcome: Success with the session, Retry with a reason when the server
// invalidated the attempt (expired remember-me token, device registered,
// refreshed token), or Fatal. Run repeats attempts within a budget and
// never loops forever. WithTransport releases the transport whenever the
// login is not successful.
package login
