package config

import "fmt"

// Set at link time:
//
//	go build -ldflags "-X flaresentinel/internal/config.version=1.2.3 \
//	    -X flaresentinel/internal/config.commit=$(git rev-parse --short HEAD) \
//	    -X flaresentinel/internal/config.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/flaresentinel
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// NewBuildInfo returns the link-time build metadata.
func NewBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}
}

// String renders the metadata for `flaresentinel --version`.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", b.Version, b.Commit, b.BuildTime)
}
