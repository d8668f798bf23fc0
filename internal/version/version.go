// Package version holds build metadata, set with -ldflags at release time:
//
//	-X github.com/MrSnakeDoc/bookmarks/internal/version.Version=v0.1.0
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = ""                // ex: abcd123
	BuildDate = ""                // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version() // go version
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "" && len(s.Value) >= 7 {
				Commit = s.Value[:7]
			}
		case "vcs.time":
			if BuildDate == "" {
				BuildDate = s.Value
			}
		}
	}
}

// String is the one-line version shown by --version.
func String() string {
	commit := Commit
	if commit == "" {
		commit = "none"
	}
	return fmt.Sprintf("bookmarks %s (commit=%s, go=%s)", Version, commit, GoVersion)
}
