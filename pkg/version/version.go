// Package version exposes build identification injected at link time.
package version

// Build identification, overridden via -ldflags at release time.
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the Git hash the binary was built from.
	Commit = "<unknown>"

	// Date is the build timestamp.
	Date = "<unknown>"
)
