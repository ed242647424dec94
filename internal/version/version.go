// Package version reports the build version of modalstate.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/modalstate/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/modalstate/internal/version.Commit=abc123"
//
// Otherwise they are filled from VCS build info, falling back to "dev".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo()
	}
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func fromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; Commit == "" && rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if settings["vcs.modified"] == "true" {
			rev += "-dirty"
		}
		Commit = rev
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	if Version == "" {
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
