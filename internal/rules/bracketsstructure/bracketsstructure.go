// Package bracketsstructure implements the brackets-structure check: inside
// method, constructor and static initializer bodies a call or declaration is
// either written on one line, or its opening bracket ends a line and its
// closing bracket starts a line of its own.
package bracketsstructure

import (
	"cmp"
	"slices"
	"strings"

	"github.com/wharflab/quill/internal/rules"
	"github.com/wharflab/quill/internal/sourcemap"
)

// Code is the rule identifier.
const Code = rules.CheckstylePrefix + "brackets-structure"

const message = "Brackets structure is broken"

// Rule implements the brackets-structure check.
type Rule struct{}

// New creates a new brackets-structure rule instance.
func New() *Rule {
	return &Rule{}
}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             Code,
		Name:             "Brackets Structure",
		Description:      "Multi-line calls must open a bracket at line end and close it on its own line",
		DocURL:           "https://github.com/wharflab/quill/blob/main/docs/rules/checkstyle/brackets-structure.md",
		DefaultSeverity:  rules.SeverityError,
		Category:         "style",
		EnabledByDefault: true,
	}
}

// Check examines every line strictly inside each callable body. Nested
// bodies (anonymous classes, local classes) share lines with their enclosing
// body, so each line is judged once.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	sm := input.SourceMap()
	checked := make(map[int]bool)
	var violations []rules.Violation

	for _, decl := range input.Declarations {
		if !decl.Kind.IsCallable() || decl.Body == nil {
			continue
		}
		for row := decl.Body.Start + 1; row < decl.Body.End; row++ {
			if checked[row] {
				continue
			}
			checked[row] = true
			if !balancedLayout(sm.Line(row)) {
				violations = append(violations,
					input.NewLineViolation(row, Code, message, r.Metadata().DefaultSeverity).
						WithDocURL(r.Metadata().DocURL))
			}
		}
	}
	sortByLine(violations)
	return violations
}

// balancedLayout reports whether a single line follows the bracket layout.
// Brackets inside literals and trailing comments do not count.
func balancedLayout(line string) bool {
	code := strings.TrimSpace(sourcemap.StripLineComment(line))
	opens := strings.Count(code, "(")
	closes := strings.Count(code, ")")
	switch {
	case opens > closes:
		return strings.HasSuffix(code, "(")
	case closes > opens:
		return code == ")" || code == ");"
	default:
		return true
	}
}

func sortByLine(violations []rules.Violation) {
	slices.SortStableFunc(violations, func(a, b rules.Violation) int {
		return cmp.Compare(a.Line(), b.Line())
	})
}

func init() {
	rules.Register(New())
}
