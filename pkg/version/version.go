// Package version provides build metadata and version information.
package version

import (
	"fmt"
	"runtime"
)

var (
	// BuildVersion is the semantic version of the build
	BuildVersion = "0.1.0"

	// BuildCommit is the git commit hash of the build
	BuildCommit = "unknown"

	// BuildDate is the date and time of the build
	BuildDate = "unknown"

	// GoVersion is the version of Go used to build
	GoVersion = runtime.Version()
)

// String returns a formatted version string
func String() string {
	return fmt.Sprintf("navermcp version %s (%s) built on %s with %s",
		BuildVersion, BuildCommit, BuildDate, GoVersion)
}

// UserAgent is sent with every Naver API request, e.g.
// "navermcp/0.1.0 (go1.25.0; commit abc1234)".
func UserAgent() string {
	return fmt.Sprintf("navermcp/%s (%s; commit %s)", BuildVersion, GoVersion, shortCommit())
}

func shortCommit() string {
	if len(BuildCommit) > 7 {
		return BuildCommit[:7]
	}
	return BuildCommit
}
