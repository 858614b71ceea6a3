package app

import (
	"runtime/debug"
	"strings"
)

// Release builds set these with -ldflags "-X .../internal/app.Version=v1.2.0".
var (
	Version = "dev"
	Commit  = ""
)

// BuildVersion is the wt --version string. Without an injected commit the
// VCS revision recorded by the Go toolchain is used, shortened to 7 chars.
func BuildVersion() string {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" {
		return Version
	}
	return Version + " (" + commit + ")"
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return strings.TrimSpace(rev)
}
