package version

import (
	"runtime/debug"
	"sync"
)

// Overridden with -ldflags "-X github.com/kbukum/lingolink/version.Version=1.4.0".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified"`
}

// String renders "1.4.0", "1.4.0+3f2a9c1" or "1.4.0+3f2a9c1.dirty".
func (i Info) String() string {
	s := i.Version
	if i.Commit != "" {
		s += "+" + i.Commit
		if i.Modified {
			s += ".dirty"
		}
	}
	return s
}

var readBuildInfo = sync.OnceValue(func() *debug.BuildInfo {
	bi, _ := debug.ReadBuildInfo()
	return bi
})

// Get merges the linker-set variables with the VCS stamp the Go toolchain
// embeds. Linker values win.
func Get() Info {
	return resolve(Version, Commit, BuildTime, readBuildInfo())
}

func resolve(ver, commit, built string, bi *debug.BuildInfo) Info {
	info := Info{Version: ver, Commit: commit, BuildTime: built}
	if bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = abbrev(s.Value)
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func abbrev(rev string) string {
	const n = 7
	if len(rev) <= n {
		return rev
	}
	return rev[:n]
}
