// Package build describes the binary that is running: the version and commit
// injected with -ldflags, falling back to what the Go toolchain embeds.
package build

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"runtime/debug"
	"slices"
	"strings"
)

// Info contains build metadata.
type Info struct {
	Version      string            `json:"version"      yaml:"version"`
	GitCommit    string            `json:"git_commit"   yaml:"gitCommit"` //nolint:tagliatelle
	BuildTime    string            `json:"build_time"   yaml:"buildTime"` //nolint:tagliatelle
	GoVersion    string            `json:"go_version"   yaml:"goVersion"` //nolint:tagliatelle
	Dependencies map[string]string `json:"dependencies" yaml:"dependencies,omitempty"`
}

// Parse deserializes a JSON string into build Info.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	if len(js) == 0 || js == "{}" {
		return nil, false
	}

	var info Info

	if err := json.Unmarshal([]byte(js), &info); err != nil {
		slog.Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// FromBuildInfo converts the toolchain's embedded build information.
func FromBuildInfo(bi *debug.BuildInfo) *Info {
	info := &Info{
		Version:      bi.Main.Version,
		GoVersion:    bi.GoVersion,
		Dependencies: make(map[string]string, len(bi.Deps)),
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.GitCommit = setting.Value
		case "vcs.time":
			info.BuildTime = setting.Value
		}
	}

	for _, dep := range bi.Deps {
		info.Dependencies[dep.Path] = dep.Version
	}

	return info
}

// Current returns the info injected as JSON via ldflags, or the toolchain's
// build info when nothing was injected.
func Current(injected string) *Info {
	if info, ok := Parse(injected); ok {
		return info
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		return FromBuildInfo(bi)
	}

	return &Info{Version: "unknown"}
}

// String renders the info as a short human readable block.
func (i *Info) String() string {
	var sb strings.Builder

	version := i.Version
	if version == "" {
		version = "(devel)"
	}

	fmt.Fprintf(&sb, "version:    %s\n", version)

	if i.GitCommit != "" {
		fmt.Fprintf(&sb, "commit:     %s\n", i.GitCommit)
	}

	if i.BuildTime != "" {
		fmt.Fprintf(&sb, "built:      %s\n", i.BuildTime)
	}

	if i.GoVersion != "" {
		fmt.Fprintf(&sb, "go:         %s\n", i.GoVersion)
	}

	for _, path := range slices.Sorted(maps.Keys(i.Dependencies)) {
		fmt.Fprintf(&sb, "dependency: %s %s\n", path, i.Dependencies[path])
	}

	return sb.String()
}
