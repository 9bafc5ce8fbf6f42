// Package version holds build information for the devenv binary.
package version

import "runtime"

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X devenv/internal/version.Version=0.2.0 -X devenv/internal/version.Commit=abc123"
var (
	// Version is the semantic version of devenv
	Version = "0.1.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// BuildInfo is the machine-readable form of the version output.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Info returns a formatted version string
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Build returns the current build information.
func Build() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Full returns complete version information
func Full() string {
	b := Build()
	return "devenv version " + b.Version + "\n" +
		"Commit: " + b.Commit + "\n" +
		"Built: " + b.BuildDate + "\n" +
		"Go: " + b.GoVersion + " " + b.Platform
}
