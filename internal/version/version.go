package version

import "fmt"

// Set at build time with -ldflags "-X github.com/banshee-data/plykit/internal/version.Version=...".
var (
	// Version is the plytool release
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build information on one line.
func String() string {
	return fmt.Sprintf("plytool %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
