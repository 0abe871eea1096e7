// Package version reports the build version of autoinstall.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/autoinstall/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/autoinstall/internal/version.Commit=abc1234"
//
// Builds without ldflags fall back to the VCS stamp embedded by the Go
// toolchain, then to "dev".
var (
	// Version is the release version of the installer
	Version = ""
	// Commit is the short git revision the binary was built from
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills Version and Commit from the vcs.* build settings.
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

	if ts := settings["vcs.time"]; Version == "" && ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			Version = "dev-" + t.Format("20060102")
		}
	}
}

// Full returns the version together with the commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
