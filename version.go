// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// version.go - build metadata injected via -ldflags and reported by the
// CLI's version command.

package storage

import "runtime"

// Build-time variables, set with
//
//	-ldflags "-X 'github.com/temifoden/alx-backend-storage.BuildDate=2026.10.17-0900' \
//	          -X 'github.com/temifoden/alx-backend-storage.BuildEnv=prod'"
//
// BuildDate is YYYY.MM.DD-HHMM (24-hour clock); BuildEnv is dev, qa or prod.
var (
	BuildDate = "0000.00.00-0000"
	BuildEnv  = "dev"
)

// Version returns "<BuildDate>-<BuildEnv>", e.g. "2026.10.17-0900-prod".
func Version() string {
	return BuildDate + "-" + BuildEnv
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Build returns the BuildInfo of the running binary.
func Build() BuildInfo {
	return BuildInfo{
		Version:   Version(),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
