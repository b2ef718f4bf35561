// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package duo implements the Duo Security out-of-band second factor used
// by 1Password and LastPass.
//
// Two protocol generations are supported. V1 ([Authenticate]) scrapes the
// HTML frame served at frame/web/v1/auth and talks to the frame/prompt and
// frame/status form endpoints. V4 ([AuthenticateV4]) starts from an OIDC
// authorization URL, submits the browser plugin form and then uses the
// JSON endpoints under frame/v4.
//
// Both share the same loop: the user chooses a device and factor, an SMS
// request is turned into a passcode entry, the choice is submitted and the
// status endpoint is polled until it reports SUCCESS or FAILURE. A failure
// goes back to the choice.
package duo
