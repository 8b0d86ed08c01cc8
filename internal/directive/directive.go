// Package directive provides inline suppression directives for linting.
//
// Two comment syntaxes are recognized:
//   - quill:      // quill ignore=RULE1,RULE2 or // quill global ignore=...
//   - checkstyle: // @checkstyle Rule1, Rule2 (N lines) or (all lines)
//
// Directives can be:
//   - Next-line: Affects the next non-comment line only
//   - Lines: Affects the directive line and the N lines after it
//   - Global: Affects the entire file
package directive

import (
	"math"
	"strings"
)

// DirectiveType indicates the scope of a directive.
type DirectiveType int

const (
	// TypeNextLine affects only the next non-comment line.
	TypeNextLine DirectiveType = iota
	// TypeLines affects a fixed number of lines after the directive.
	TypeLines
	// TypeGlobal affects the entire file.
	TypeGlobal
)

// String returns a human-readable name for the directive type.
func (t DirectiveType) String() string {
	switch t {
	case TypeNextLine:
		return "next-line"
	case TypeLines:
		return "lines"
	case TypeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// LineRange represents a range of lines affected by a directive.
// Line numbers are 0-based to match SourceMap conventions.
type LineRange struct {
	// Start is the 0-based line number (inclusive).
	Start int
	// End is the 0-based line number (inclusive).
	// For global directives, this is math.MaxInt.
	End int
}

// Contains returns true if the given 0-based line is within the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// GlobalRange returns a LineRange that covers the entire file.
func GlobalRange() LineRange {
	return LineRange{Start: 0, End: math.MaxInt}
}

// Directive represents a parsed inline suppression directive.
type Directive struct {
	// Type indicates the scope of the directive.
	Type DirectiveType

	// Rules contains the rule codes or check names to suppress.
	// A single-element slice containing "all" means suppress all rules.
	Rules []string

	// Line is the 0-based line number where the directive appears.
	Line int

	// AppliesTo is the range of lines affected by this directive.
	AppliesTo LineRange

	// Used is set to true when this directive suppresses at least one violation.
	Used bool

	// RawText is the original comment text (for error messages).
	RawText string

	// Source indicates which format the directive used.
	Source DirectiveSource

	// Reason is an optional explanation for why the rule is being suppressed.
	// Extracted from `reason=...` in quill directives.
	Reason string
}

// DirectiveSource identifies which syntax format was used.
type DirectiveSource string

const (
	// SourceQuill indicates // quill ignore=... syntax.
	SourceQuill DirectiveSource = "quill"
	// SourceCheckstyle indicates // @checkstyle Rule (N lines) syntax.
	SourceCheckstyle DirectiveSource = "checkstyle"
)

// SuppressesRule returns true if this directive suppresses the given rule code.
func (d *Directive) SuppressesRule(ruleCode string) bool {
	for _, r := range d.Rules {
		if r == "all" || matchesRule(r, ruleCode) {
			return true
		}
	}
	return false
}

// matchesRule checks if a directive rule pattern matches a rule code.
// Supports:
//   - Exact match: "checkstyle/puzzle-format" matches "checkstyle/puzzle-format"
//   - Suffix match: "puzzle-format" matches "checkstyle/puzzle-format"
//   - Check names: "PuzzleFormat" and "PuzzleFormatCheck" match "checkstyle/puzzle-format"
func matchesRule(pattern, ruleCode string) bool {
	if pattern == ruleCode {
		return true
	}
	ns, name := splitCode(ruleCode)
	pns, pname := splitCode(pattern)
	if pns != "" && ns != "" && pns != ns {
		return false
	}
	return pname == name || foldName(pname) == foldName(name)
}

func splitCode(code string) (string, string) {
	if idx := strings.LastIndexByte(code, '/'); idx != -1 {
		return code[:idx], code[idx+1:]
	}
	return "", code
}

// foldName reduces a rule name to lowercase letters and digits, dropping a
// trailing "Check" so "BracketsStructureCheck" equals "brackets-structure".
func foldName(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSuffix(s, "check")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SuppressesLine returns true if this directive suppresses violations on the given line.
// Line is 0-based.
func (d *Directive) SuppressesLine(line int) bool {
	return d.AppliesTo.Contains(line)
}

// ParseResult contains all directives parsed from a file plus any errors.
type ParseResult struct {
	// Directives contains successfully parsed directives.
	Directives []Directive

	// Errors contains parse errors for malformed directives.
	Errors []ParseError
}

// ParseError represents an error parsing a directive.
type ParseError struct {
	// Line is the 0-based line number where the error occurred.
	Line int

	// Message describes what went wrong.
	Message string

	// RawText is the original comment text.
	RawText string
}
