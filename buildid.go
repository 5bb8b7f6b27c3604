package hcv

import "runtime/debug"

// GitID identifies the build of the host. It is normally set at link time:
//
//	go build -ldflags "-X github.com/spirefy/go-hcv.GitID=$(git rev-parse HEAD)"
var GitID string

// contractPrefixLen is how much of two build identifiers has to agree for a module to count as built against
// this host.
const contractPrefixLen = 24

// BuildID returns GitID, or the VCS revision recorded by the Go toolchain when GitID was not set.
func BuildID() string {
	if GitID != "" {
		return GitID
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return "unknown"
}

func sameBuild(a, b string) bool {
	return truncate(a, contractPrefixLen) == truncate(b, contractPrefixLen)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
