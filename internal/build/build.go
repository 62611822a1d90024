// Package build holds build-time information.
package build

import "fmt"

// These are overwritten by linker flags in release builds.
var (
	// Version is the application version.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// String formats the version with its commit and date.
func String() string {
	return fmt.Sprintf("%s (commit: %s, date: %s)", Version, Commit, Date)
}
