// Package version carries build metadata stamped in with -ldflags
package version

// BuildInfo describes one binary build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for service
//
//	go build -ldflags "-X rinkfeed/internal/core/version.version=v0.3.0 -X rinkfeed/internal/core/version.commit=abcd"
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
