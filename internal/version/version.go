package version

import "fmt"

// These variables are set at build time via ldflags
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version string (commit-hash based, no semver)
func String() string {
	return fmt.Sprintf("checkin dev (commit: %s, built: %s)", shortCommit(), BuildTime)
}

// UserAgent returns the User-Agent sent to the analysis service.
func UserAgent() string {
	return "checkin/" + shortCommit()
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
