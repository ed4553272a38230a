// Package buildinfo holds the release identifiers stamped into the billrecon binary
package buildinfo

// Set with ldflags, e.g.
//
//	go build -ldflags "-X github.com/YoshitsuguKoike/billrecon/internal/buildinfo.Version=v0.3.0 \
//	  -X github.com/YoshitsuguKoike/billrecon/internal/buildinfo.Commit=$(git rev-parse --short HEAD)" ./cmd/billrecon
var (
	Version = "dev"
	Commit  = ""
)

// GetVersion returns Version, or "dev" for unstamped builds
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// String is the one-line form printed by `billrecon version` and the config dump
func String() string {
	if Commit == "" {
		return GetVersion()
	}
	return GetVersion() + " (" + Commit + ")"
}
