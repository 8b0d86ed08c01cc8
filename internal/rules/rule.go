package rules

import (
	"github.com/wharflab/quill/internal/javasyntax"
	"github.com/wharflab/quill/internal/sourcemap"
)

// LintInput contains all the information a rule needs to check one file.
//
// IMPORTANT: LintInput is read-only. Rules must not mutate any fields or the
// declarations they point to. If a rule needs to modify data, it must copy it
// first. This prevents hidden coupling between rules.
type LintInput struct {
	// File is the path of the file being linted, relative to the project root.
	File string

	// Path is the file's location on disk. Empty for in-memory input.
	Path string

	// Source is the raw file content.
	Source []byte

	// Map is the line index over Source. Nil means SourceMap builds one.
	Map *sourcemap.SourceMap

	// Declarations are the structural units of a Java file in source order
	// (outer declarations before the ones they contain). Nil for markup files.
	Declarations []*javasyntax.Declaration

	// Config is the rule-specific configuration (type depends on rule).
	Config any
}

// SourceMap returns the line index for the input.
func (in LintInput) SourceMap() *sourcemap.SourceMap {
	if in.Map != nil {
		return in.Map
	}
	return sourcemap.New(in.Source)
}

// NewLineViolation creates a violation at a 0-based source row, the unit the
// scanning utilities work in.
func (in LintInput) NewLineViolation(row int, ruleCode, message string, severity Severity) Violation {
	return NewViolation(NewLineLocation(in.File, row+1), ruleCode, message, severity)
}

// RuleMetadata contains static information about a rule.
type RuleMetadata struct {
	// Code is the unique namespaced identifier (e.g., "checkstyle/puzzle-format").
	Code string

	// Name is the human-readable rule name.
	Name string

	// Description explains what the rule checks.
	Description string

	// DocURL links to detailed documentation.
	DocURL string

	// DefaultSeverity is the severity when not overridden.
	DefaultSeverity Severity

	// Category groups related rules (e.g., "style", "documentation").
	Category string

	// EnabledByDefault indicates if the rule runs without explicit opt-in.
	EnabledByDefault bool
}

// Rule is the interface that all linting rules must implement.
type Rule interface {
	// Metadata returns static information about the rule.
	Metadata() RuleMetadata

	// Check runs the rule against the given input and returns any violations.
	// Scan state lives in the call; rules are safe for concurrent use.
	Check(input LintInput) []Violation
}

// LineRule is an optional interface for rules that read only the source
// lines. They still run on a Java file whose declarations could not be
// extracted.
type LineRule interface {
	Rule

	// LinesOnly reports whether Check ignores LintInput.Declarations.
	LinesOnly() bool
}

// ConfigurableRule is an optional interface for rules that accept configuration.
type ConfigurableRule interface {
	Rule

	// DefaultConfig returns the default configuration for this rule.
	DefaultConfig() any

	// ValidateConfig checks if a configuration is valid for this rule.
	ValidateConfig(config any) error
}
