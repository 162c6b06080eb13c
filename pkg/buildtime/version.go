package buildtime

import (
	"runtime/debug"
	"sync"
)

// set with -ldflags "-X github.com/opst/landmarks/pkg/buildtime.version=v1.2.3"
var version = "dev"

var revision = sync.OnceValue(func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	rev, dirty := "unknown", false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty {
		rev += "-dirty"
	}
	return rev
})

// version string when this landmarks has been built.
func VERSION() string {
	return version
}

func GIT_REVISION() string {
	return revision()
}

func VersionString() string {
	return VERSION() + " (commit: " + GIT_REVISION() + ")"
}
