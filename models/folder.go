// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Folder groups accounts. Folders form a tree through ParentID; the tree is
// never cyclic.
type Folder struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// ParentID is empty for top-level folders.
	ParentID string `json:"parent_id,omitempty"`
}
