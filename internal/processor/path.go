package processor

import (
	"path"
	"strings"

	"github.com/wharflab/quill/internal/rules"
)

// PathNormalization rewrites violation paths to the clean, slash-separated
// form the exclusion patterns and inline directives are matched against.
// Engine reports written on Windows use backslashes, and Maven module
// reports often carry a "./" prefix.
type PathNormalization struct{}

// NewPathNormalization creates a new path normalization processor.
func NewPathNormalization() *PathNormalization {
	return &PathNormalization{}
}

// Name returns the processor's identifier.
func (p *PathNormalization) Name() string {
	return "path-normalization"
}

// Process normalizes every violation path.
func (p *PathNormalization) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	return transformViolations(violations, func(v rules.Violation) rules.Violation {
		v.Location.File = normalizePath(v.Location.File)
		return v
	})
}

func normalizePath(file string) string {
	if file == "" {
		return file
	}
	return path.Clean(strings.ReplaceAll(file, "\\", "/"))
}
