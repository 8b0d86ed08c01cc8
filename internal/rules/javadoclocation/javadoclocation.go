// Package javadoclocation implements the javadoc-location check: every type,
// field, constructor and method has a doc comment directly above it, with no
// blank line in between.
package javadoclocation

import (
	"github.com/wharflab/quill/internal/javasyntax"
	"github.com/wharflab/quill/internal/rules"
)

// Code is the rule identifier.
const Code = rules.CheckstylePrefix + "javadoc-location"

const (
	msgMissing = "Problem finding javadoc"
	msgBlank   = "Empty line between javadoc and subject"
)

// Rule implements the javadoc-location check.
type Rule struct{}

// New creates a new javadoc-location rule instance.
func New() *Rule {
	return &Rule{}
}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             Code,
		Name:             "Javadoc Location",
		Description:      "Types and members must have a javadoc comment directly above them",
		DocURL:           "https://github.com/wharflab/quill/blob/main/docs/rules/checkstyle/javadoc-location.md",
		DefaultSeverity:  rules.SeverityError,
		Category:         "documentation",
		EnabledByDefault: true,
	}
}

// Check looks for the closing "*/" above each declaration. The search stops
// at the declaration's floor so a comment that belongs to an earlier sibling
// is never taken for this one.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	meta := r.Metadata()
	sm := input.SourceMap()

	var violations []rules.Violation
	for _, decl := range input.Declarations {
		if !documented(decl.Kind) {
			continue
		}
		line := decl.Line()
		end, ok := sm.FindTrimmedUp(line, decl.Floor, "*/").Row()
		if !ok {
			violations = append(violations,
				input.NewLineViolation(line, meta.Code, msgMissing, meta.DefaultSeverity).WithDocURL(meta.DocURL))
			continue
		}
		for row := end + 1; row < line; row++ {
			if sm.IsBlank(row) {
				violations = append(violations,
					input.NewLineViolation(row, meta.Code, msgBlank, meta.DefaultSeverity).WithDocURL(meta.DocURL))
			}
		}
	}
	return violations
}

func documented(kind javasyntax.Kind) bool {
	return kind != javasyntax.KindStaticInitializer
}

func init() {
	rules.Register(New())
}
