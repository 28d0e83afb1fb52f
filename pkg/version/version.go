// Package version reports the build version of the aspects binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const revisionLength = 7

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision(debug.ReadBuildInfo())
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// Full returns the version with the revision and platform, e.g.
// "v0.1.0 (a1b2c3d, go1.25.0 linux/amd64)".
func Full() string {
	return fmt.Sprintf("%s (%s, %s %s/%s)", GetVersion(), Revision, GoVersion, GoOS, GoArch)
}

func getRevision(buildInfo *debug.BuildInfo, ok bool) string {
	rev := "unknown"
	if !ok || buildInfo == nil {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
			if len(rev) > revisionLength {
				rev = rev[:revisionLength]
			}

		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
