// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MKhiriev/go-vault-access/models"
)

// FolderTree is a validated, acyclic folder hierarchy.
type FolderTree struct {
	byID     map[string]models.Folder
	children map[string][]string
}

// NewFolderTree builds the tree. Folders whose parent is unknown become
// top level. A folder that is its own parent or its own ancestor fails the
// whole tree with ErrFolderCycle.
func NewFolderTree(folders []models.Folder) (*FolderTree, error) {
	t := &FolderTree{
		byID:     make(map[string]models.Folder, len(folders)),
		children: make(map[string][]string),
	}

	for _, f := range folders {
		if _, ok := t.byID[f.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrFolderExists, f.ID)
		}
		if f.ParentID == f.ID && f.ID != "" {
			return nil, fmt.Errorf("%w: %q is its own parent", ErrFolderCycle, f.ID)
		}
		t.byID[f.ID] = f
	}

	for id, f := range t.byID {
		if _, ok := t.byID[f.ParentID]; !ok {
			f.ParentID = ""
			t.byID[id] = f
		}
	}

	for id := range t.byID {
		if err := t.checkAncestors(id); err != nil {
			return nil, err
		}
	}

	for id, f := range t.byID {
		t.children[f.ParentID] = append(t.children[f.ParentID], id)
	}
	for _, ids := range t.children {
		sort.Strings(ids)
	}

	return t, nil
}

func (t *FolderTree) checkAncestors(id string) error {
	visited := map[string]struct{}{id: {}}
	for parent := t.byID[id].ParentID; parent != ""; parent = t.byID[parent].ParentID {
		if _, ok := visited[parent]; ok {
			return fmt.Errorf("%w: %q is its own ancestor", ErrFolderCycle, id)
		}
		visited[parent] = struct{}{}
	}
	return nil
}

// Get returns the folder with id.
func (t *FolderTree) Get(id string) (models.Folder, bool) {
	f, ok := t.byID[id]
	return f, ok
}

// Roots returns the ids of the top level folders, sorted.
func (t *FolderTree) Roots() []string {
	return t.Children("")
}

// Children returns the sorted ids of the direct children of id.
func (t *FolderTree) Children(id string) []string {
	return append([]string(nil), t.children[id]...)
}

// Folders returns every folder sorted by id.
func (t *FolderTree) Folders() []models.Folder {
	out := make([]models.Folder, 0, len(t.byID))
	for _, f := range t.byID {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Path joins the titles from the root down to id with sep. Unknown ids
// give an empty path.
func (t *FolderTree) Path(id, sep string) string {
	var titles []string
	for f, ok := t.byID[id]; ok; f, ok = t.byID[f.ParentID] {
		titles = append(titles, f.Title)
		if f.ParentID == "" {
			break
		}
	}

	for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
		titles[i], titles[j] = titles[j], titles[i]
	}
	return strings.Join(titles, sep)
}

// Len returns the number of folders.
func (t *FolderTree) Len() int {
	return len(t.byID)
}
