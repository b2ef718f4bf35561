// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON serializes the given data as indented JSON followed by a
// newline and writes it to w.
//
// Nothing is written when marshaling fails.
//
// Parameters:
//
//	w    - destination, e.g. os.Stdout or an export file
//	data - any value to be serialized as JSON (struct, map, slice, nil, etc.)
//
// Returns:
//
//	int   - number of bytes written
//	error - non-nil if JSON marshaling or the write fails
//
// Example usage:
//
//	WriteJSON(os.Stdout, result.Accounts)
func WriteJSON(w io.Writer, data any) (int, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	return w.Write(append(jsonData, '\n'))
}
