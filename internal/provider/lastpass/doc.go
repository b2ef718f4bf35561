// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package lastpass logs into LastPass, downloads the account blob and
// decrypts it.
//
// Login is a form POST to login.php answered with XML. The server may ask
// to repeat the request with another iteration count or against another
// host, and may require a one-time passcode or an out-of-band approval
// (LastPass Authenticator or Duo) before it issues a session.
//
// The vault is a binary blob of chunks. ACCT chunks are accounts, SHAR
// starts a shared folder whose key is RSA encrypted with the user's
// private key; every ACCT after a SHAR belongs to it.
package lastpass
