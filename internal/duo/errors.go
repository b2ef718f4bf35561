// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package duo

import (
	"fmt"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
)

func invalidResponse(format string, args ...any) error {
	return app.Newf(app.ErrInvalidResponse, "duo: "+format, args...)
}

// requestError describes a failed call, adding the server message of the
// JSON envelope when there is one.
func requestError(resp *adapter.Response, serverMessage string) error {
	msg := "duo: rest call failed"
	if serverMessage != "" {
		msg = fmt.Sprintf("%s, server message: %s", msg, serverMessage)
	}
	return app.New(app.ErrInternal, msg, nil).WithRequest(resp.RequestURL, resp.StatusCode)
}
