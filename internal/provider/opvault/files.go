// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package opvault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const bandNames = "0123456789ABCDEF"

func makeFilename(path, name string) string {
	return filepath.Join(filepath.FromSlash(path), "default", name)
}

// loadJS reads a JavaScript file that wraps a single JSON object in
// prefix and suffix.
func loadJS(filename, prefix, suffix string) ([]byte, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, mapFileError(filename, err)
	}

	text := strings.TrimSpace(string(content))
	if len(text) < len(prefix)+len(suffix) {
		return nil, fmt.Errorf("%w: %s: content is too short", ErrInvalidFormat, filepath.Base(filename))
	}
	if !strings.HasPrefix(text, prefix) {
		return nil, fmt.Errorf("%w: %s: expected prefix is not found", ErrInvalidFormat, filepath.Base(filename))
	}
	if !strings.HasSuffix(text, suffix) {
		return nil, fmt.Errorf("%w: %s: expected suffix is not found", ErrInvalidFormat, filepath.Base(filename))
	}

	return []byte(text[len(prefix) : len(text)-len(suffix)]), nil
}

func decodeJSON(filename string, data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFormat, filepath.Base(filename), err)
	}
	return nil
}

func loadProfile(path string) (profile, error) {
	filename := makeFilename(path, "profile.js")

	data, err := loadJS(filename, "var profile=", ";")
	if err != nil {
		return profile{}, err
	}

	var p profile
	if err = decodeJSON(filename, data, &p); err != nil {
		return profile{}, err
	}
	return p, nil
}

// loadFolders returns nil for vaults without folders.js.
func loadFolders(path string) ([]encryptedFolder, error) {
	filename := makeFilename(path, "folders.js")
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := loadJS(filename, "loadFolders(", ");")
	if err != nil {
		return nil, err
	}

	var byID map[string]encryptedFolder
	if err = decodeJSON(filename, data, &byID); err != nil {
		return nil, err
	}

	folders := make([]encryptedFolder, 0, len(byID))
	for _, f := range byID {
		folders = append(folders, f)
	}
	return folders, nil
}

// loadItems reads all present band files. Items keep every field as
// decoded, the tag is computed over all of them.
func loadItems(path string) ([]rawItem, error) {
	var items []rawItem

	for _, c := range bandNames {
		filename := makeFilename(path, fmt.Sprintf("band_%c.js", c))
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			continue
		}

		data, err := loadJS(filename, "ld(", ");")
		if err != nil {
			return nil, err
		}

		var band map[string]rawItem
		if err = decodeJSON(filename, data, &band); err != nil {
			return nil, err
		}

		for _, item := range band {
			items = append(items, item)
		}
	}

	return items, nil
}
