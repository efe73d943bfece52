// Package build reports what binary is running. Release builds embed their metadata
// as JSON through -ldflags:
//
//	go build -ldflags "-X 'github.com/amp-labs/easyapply/build.embedded={\"version\":\"v1.2.0\"}'"
//
// Other builds fall back to what the Go toolchain recorded.
package build

import (
	"encoding/json"
	"log/slog"
	"runtime/debug"
)

// embedded is set at link time.
var embedded string //nolint:gochecknoglobals

// Info is the build metadata of the running binary.
type Info struct {
	Version      string            `json:"version"`
	GitCommit    string            `json:"git_commit"` //nolint:tagliatelle
	GitBranch    string            `json:"git_branch"` //nolint:tagliatelle
	BuildTime    string            `json:"build_time"` //nolint:tagliatelle
	GoVersion    string            `json:"go_version"` //nolint:tagliatelle
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Parse deserializes embedded build metadata.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	if len(js) == 0 || js == "{}" {
		return nil, false
	}

	var info Info

	err := json.Unmarshal([]byte(js), &info)
	if err != nil {
		slog.Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// Current returns the embedded metadata if present, else what the toolchain recorded.
func Current() Info {
	if info, ok := Parse(embedded); ok {
		return *info
	}

	recorded, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{Version: "(devel)"}
	}

	info := FromBuildInfo(recorded)
	if info.Version == "" {
		info.Version = "(devel)"
	}

	return info
}

// FromBuildInfo extracts metadata from the toolchain's record of a binary.
func FromBuildInfo(recorded *debug.BuildInfo) Info {
	info := Info{
		Version:      recorded.Main.Version,
		GoVersion:    recorded.GoVersion,
		Dependencies: make(map[string]string, len(recorded.Deps)),
	}

	for _, setting := range recorded.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.GitCommit = setting.Value
		case "vcs.time":
			info.BuildTime = setting.Value
		}
	}

	for _, dep := range recorded.Deps {
		if dep.Replace != nil {
			dep = dep.Replace
		}

		info.Dependencies[dep.Path] = dep.Version
	}

	return info
}
