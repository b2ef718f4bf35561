// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package opvault opens the local OPVault directory format used by
// 1Password for file based sync. Nothing here touches the network.
//
// Layout of a vault directory:
//
//	<path>/default/profile.js     var profile={...};
//	<path>/default/folders.js     loadFolders({...});
//	<path>/default/band_0.js      ld({...});   bands 0..F, any may be missing
//
// Key hierarchy: PBKDF2-SHA512(password) gives the key encryption key,
// which opens the master and overview keys. The master key opens the
// 112 byte per-item keys, the overview key opens titles, URLs and folder
// names and signs every item.
package opvault
