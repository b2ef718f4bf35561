// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package opvault

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type profile struct {
	UUID        string `json:"uuid"`
	Salt        string `json:"salt"`
	Iterations  int    `json:"iterations"`
	MasterKey   string `json:"masterKey"`
	OverviewKey string `json:"overviewKey"`
	ProfileName string `json:"profileName"`
}

type encryptedFolder struct {
	UUID     string `json:"uuid"`
	Overview string `json:"overview"`
	Parent   string `json:"parent"`
	Deleted  bool   `json:"deleted"`
	Smart    bool   `json:"smart"`
}

type folderOverview struct {
	Title string `json:"title"`
}

// rawItem is a band entry. It stays a generic map because the tag covers
// every field, known or not.
type rawItem map[string]any

func (r rawItem) str(name string) string {
	s, _ := r[name].(string)
	return s
}

func (r rawItem) boolean(name string) bool {
	b, _ := r[name].(bool)
	return b
}

// tagContent concatenates name and value of every field except "hmac" in
// name order.
func (r rawItem) tagContent() []byte {
	names := make([]string, 0, len(r))
	for name := range r {
		if name != "hmac" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(tagValue(r[name]))
	}
	return []byte(b.String())
}

func tagValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

type itemOverview struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	URLs  []struct {
		URL string `json:"u"`
	} `json:"URLs"`
}

func (o itemOverview) urls() []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(u string) {
		if _, ok := seen[u]; ok || u == "" {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	add(o.URL)
	for _, u := range o.URLs {
		add(u.URL)
	}
	return out
}

type itemDetails struct {
	Fields []struct {
		Designation string `json:"designation"`
		Name        string `json:"name"`
		Value       string `json:"value"`
	} `json:"fields"`
	NotesPlain string `json:"notesPlain"`
}

func (d itemDetails) field(designation string) string {
	for _, f := range d.Fields {
		if f.Designation == designation {
			return f.Value
		}
	}
	return ""
}
