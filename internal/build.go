package internal

import (
	"runtime/debug"
	"time"
)

// Build describes the running binary, read from the VCS info the Go
// toolchain stamps into it. A binary built outside a checkout, such as a
// test binary, keeps the zero values.
var Build = BuildInfo{Revision: "unknown"}

// BuildInfo is version information about a binary.
type BuildInfo struct {
	Revision     string
	RevisionTime time.Time
	Modified     bool
}

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			Build.Revision = setting.Value
		case "vcs.time":
			t, err := time.Parse(time.RFC3339, setting.Value)
			if err == nil {
				Build.RevisionTime = t
			}
		case "vcs.modified":
			Build.Modified = setting.Value == "true"
		}
	}
}
