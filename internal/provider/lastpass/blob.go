// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lastpass

import (
	"encoding/binary"
)

const (
	chunkAccount    = "ACCT"
	chunkShare      = "SHAR"
	chunkPrivateKey = "PRIK"
	chunkEnd        = "ENDM"
)

type chunk struct {
	id      string
	payload []byte
}

// readChunks splits the blob into id + size + payload chunks. A blob that
// does not end with ENDM was cut short.
func readChunks(blob []byte) ([]chunk, error) {
	var chunks []chunk

	for len(blob) > 0 {
		if len(blob) < 8 {
			return nil, ErrBlobTruncated
		}

		id := string(blob[:4])
		size := binary.BigEndian.Uint32(blob[4:8])
		blob = blob[8:]
		if uint64(size) > uint64(len(blob)) {
			return nil, ErrBlobTruncated
		}

		chunks = append(chunks, chunk{id: id, payload: blob[:size]})
		blob = blob[size:]

		if id == chunkEnd {
			return chunks, nil
		}
	}

	return nil, ErrBlobTruncated
}

// readItems splits a chunk payload into size-prefixed items.
func readItems(payload []byte) ([][]byte, error) {
	var items [][]byte

	for len(payload) > 0 {
		if len(payload) < 4 {
			return nil, ErrBlobTruncated
		}

		size := binary.BigEndian.Uint32(payload[:4])
		payload = payload[4:]
		if uint64(size) > uint64(len(payload)) {
			return nil, ErrBlobTruncated
		}

		items = append(items, payload[:size])
		payload = payload[size:]
	}

	return items, nil
}

func item(items [][]byte, i int) []byte {
	if i < len(items) {
		return items[i]
	}
	return nil
}
