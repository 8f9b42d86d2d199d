// Package buildinfo holds the version reported by `cargo print --version`.
//
// Release builds stamp the variables through the linker:
//
//	go build -ldflags "-X github.com/matzehuels/cargoprint/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/matzehuels/cargoprint/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/cargoprint/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)" ./cmd/cargo-print
//
// Unstamped builds (go install, go run) report "dev".
package buildinfo

import "fmt"

var (
	// Version of the cargo-print binary.
	Version = "dev"

	// Commit the binary was built from.
	Commit = "none"

	// Date of the build.
	Date = "unknown"
)

// Template returns the cobra version template. Cargo subcommands print
// their version on the first line, so the name and version come first.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
