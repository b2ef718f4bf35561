// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

const (
	appName        = "go-vault-access"
	unknownBuildID = "N/A"
)

// AppBuildInfo is the linker-injected identity of the running binary.
// Empty parts are reported as "N/A".
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{
		version: strings.TrimSpace(version),
		date:    strings.TrimSpace(date),
		commit:  strings.TrimSpace(commit),
	}
}

func (a AppBuildInfo) AppName() string      { return appName }
func (a AppBuildInfo) BuildVersion() string { return orUnknown(a.version) }
func (a AppBuildInfo) BuildDate() string    { return orUnknown(a.date) }
func (a AppBuildInfo) BuildCommit() string  { return orUnknown(a.commit) }

// UserAgent identifies the binary to vendor servers, e.g.
// "go-vault-access/1.2.0". Builds without a version get fallback.
func (a AppBuildInfo) UserAgent(fallback string) string {
	if a.version == "" {
		return fallback
	}
	return appName + "/" + a.version
}

func orUnknown(v string) string {
	if v == "" {
		return unknownBuildID
	}
	return v
}
