// Package version reports the quill build version and the versions of the
// grammars it was linked with.
package version

import (
	"runtime"
	"runtime/debug"
	"slices"
)

var version = "dev"

const javaGrammarModule = "github.com/tree-sitter/tree-sitter-java"

// Version returns the current version string with the Java grammar suffix.
func Version() string {
	if grammar := JavaGrammarVersion(); grammar != "" {
		return version + " (tree-sitter-java " + grammar + ")"
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

// JavaGrammarVersion returns the linked tree-sitter Java grammar version.
func JavaGrammarVersion() string {
	grammar, _ := readBuildInfo()
	return grammar
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

// readBuildInfo reads debug.ReadBuildInfo once and extracts both
// the grammar dependency version and the VCS revision.
func readBuildInfo() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	var grammar, commit string
	if idx := slices.IndexFunc(info.Deps, func(dep *debug.Module) bool {
		return dep.Path == javaGrammarModule
	}); idx >= 0 {
		grammar = info.Deps[idx].Version
	}
	if idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	}); idx >= 0 {
		commit = info.Settings[idx].Value
		if len(commit) > 12 {
			commit = commit[:12]
		}
	}
	return grammar, commit
}

// Info holds structured version information for machine-readable output.
type Info struct {
	Version            string   `json:"version"`
	JavaGrammarVersion string   `json:"javaGrammarVersion,omitempty"`
	Platform           Platform `json:"platform"`
	GoVersion          string   `json:"goVersion"`
	GitCommit          string   `json:"gitCommit,omitempty"`
}

// Platform describes the OS and architecture.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// GetInfo returns structured version information.
func GetInfo() Info {
	grammar, commit := readBuildInfo()
	return Info{
		Version:            RawVersion(),
		JavaGrammarVersion: grammar,
		Platform: Platform{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		GoVersion: GoVersion(),
		GitCommit: commit,
	}
}
