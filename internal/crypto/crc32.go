// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "hash/crc32"

// CRC32 is the IEEE checksum. It is not a MAC and is never used as one.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
