// Package version carries build-time version information.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns a human readable version line.
func String() string {
	return fmt.Sprintf("snmptree-bridge %s (commit %s, built %s)", Version, Commit, Date)
}
