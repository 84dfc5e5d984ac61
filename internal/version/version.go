// Package version reports which build of prism is running.
//
// Release builds stamp Version, Commit and Date with -ldflags "-X". Binaries
// built with plain go build or go install from a checkout carry no stamps;
// for those the commit, time and dirty flag come from the VCS settings Go
// embeds in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

var (
	// Version is the release tag, e.g. "v0.3.1".
	Version = "dev"

	// Commit is the full git revision.
	Commit = unknown

	// Date is the build or commit time, RFC3339.
	Date = unknown
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the build identity printed by "prism version".
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo merges the ldflags stamps with the embedded build info.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Commit != unknown {
		return info
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			if info.Date == unknown {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// ShortCommit returns at most the first 8 characters of the commit.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

func (i Info) String() string {
	if i.Commit == unknown {
		return fmt.Sprintf("prism version %s (%s, %s)", i.Version, i.GoVersion, i.Platform)
	}
	commit := i.ShortCommit()
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("prism version %s (commit: %s, built: %s, %s, %s)",
		i.Version, commit, i.Date, i.GoVersion, i.Platform)
}

// String returns the one-line version banner.
func String() string {
	return GetInfo().String()
}

// Short returns the version alone, for cobra's --version.
func Short() string {
	return GetInfo().Version
}
