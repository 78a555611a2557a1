package contracts

import "fmt"

const (
	// Version of the report service and CLI
	Version = "1.2.0"

	// APIVersion prefixes the report routes and tags status messages
	APIVersion = "v1"
)

// Stamped by build.go through -ldflags -X
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionString is the one-line version shown by the CLI
func VersionString() string {
	return fmt.Sprintf("%s (api %s, commit %s, built %s)", Version, APIVersion, GitCommit, BuildTime)
}
