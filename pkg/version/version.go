// Package version reports the build identity of the encore binary.
package version

import (
	"fmt"
	"runtime/debug"
)

const (
	devVersion     = "dev"
	develModule    = "(devel)"
	shortCommitLen = 12
)

// Build identity, normally set with -ldflags "-X ...".
var (
	Version = devVersion
	Commit  = "none"
	Date    = "unknown"
)

// InitBinaryVersion fills values left unset by the linker from the module
// build info embedded by the go tool.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == devVersion && info.Main.Version != "" && info.Main.Version != develModule {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
				if len(Commit) > shortCommitLen {
					Commit = Commit[:shortCommitLen]
				}
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}

// String formats the identity for the version command.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
