// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/archdiagram/pkg/buildinfo.Version=v0.1.0 \
//	    -X github.com/matzehuels/archdiagram/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/archdiagram/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/archdiagram
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v0.1.0").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information on a single line.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// Template returns the cobra version template for the named program.
func Template(program string) string {
	return fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", program, Version, Commit, Date)
}
