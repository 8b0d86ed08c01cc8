// Package puzzleformat implements the puzzle-format check for "@todo" tags.
//
// A puzzle is a javadoc "@todo" tag with a ticket reference and an optional
// time estimate:
//
//	/**
//	 * @todo #123:30min Implement the retry policy. The body continues
//	 *  on lines indented by one extra space.
//	 */
package puzzleformat

import (
	"regexp"
	"strings"

	"github.com/wharflab/quill/internal/rules"
	"github.com/wharflab/quill/internal/sourcemap"
)

// Code is the rule identifier.
const Code = rules.CheckstylePrefix + "puzzle-format"

const (
	msgFormat    = "@todo tag has wrong format"
	msgIndent    = "One space indentation expected"
	msgEnclosure = "@todo puzzles are allowed only in javadoc blocks"
)

var (
	firstLine    = regexp.MustCompile(`^\s*\* @todo #[\w\-]+!?(:\d+(\.\d+)?(min|m|h|hr|hrs|d))? [A-Z].*$`)
	continuation = regexp.MustCompile(`^\s*\*  \S.*$`)
	otherTag     = regexp.MustCompile(`^\*\s*@\S`)
)

const marker = "@todo"

// state tracks the body of one puzzle while scanning forward from its tag.
type state int

const (
	beforeTag state = iota
	inTagBody
	terminated
)

// Rule implements the puzzle-format check.
type Rule struct{}

// New creates a new puzzle-format rule instance.
func New() *Rule {
	return &Rule{}
}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             Code,
		Name:             "Puzzle Format",
		Description:      "@todo puzzles must follow the puzzle format and live in javadoc blocks",
		DocURL:           "https://github.com/wharflab/quill/blob/main/docs/rules/checkstyle/puzzle-format.md",
		DefaultSeverity:  rules.SeverityError,
		Category:         "documentation",
		EnabledByDefault: true,
	}
}

// Check validates every line mentioning "@todo".
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	meta := r.Metadata()
	sm := input.SourceMap()
	report := func(row int, msg string) rules.Violation {
		return input.NewLineViolation(row, meta.Code, msg, meta.DefaultSeverity).WithDocURL(meta.DocURL)
	}

	var violations []rules.Violation
	for row, line := range sm.Lines() {
		if !strings.Contains(line, marker) {
			continue
		}
		if !firstLine.MatchString(line) {
			violations = append(violations, report(row, msgFormat))
		}
		for _, bad := range badContinuations(sm, row) {
			violations = append(violations, report(bad, msgIndent))
		}
		if !enclosed(sm, row) {
			violations = append(violations, report(row, msgEnclosure))
		}
	}
	return violations
}

// LinesOnly reports that the check reads source lines only.
func (r *Rule) LinesOnly() bool {
	return true
}

// badContinuations walks the puzzle body below the tag line and returns the
// rows that are not indented by one extra space. A tag outside a javadoc
// line has no body; the enclosure check reports it.
func badContinuations(sm *sourcemap.SourceMap, tag int) []int {
	if !strings.HasPrefix(sm.Trimmed(tag), "*") {
		return nil
	}
	var bad []int
	st := beforeTag
	for row := tag; row < sm.LineCount() && st != terminated; row++ {
		trimmed := sm.Trimmed(row)
		switch st {
		case beforeTag:
			st = inTagBody
			if strings.HasSuffix(trimmed, "*/") {
				st = terminated
			}
		case inTagBody:
			if terminates(trimmed) {
				st = terminated
				continue
			}
			if !continuation.MatchString(sm.Line(row)) {
				bad = append(bad, row)
			}
			if strings.HasSuffix(trimmed, "*/") {
				st = terminated
			}
		}
	}
	return bad
}

// terminates reports whether a trimmed line ends the puzzle body: the end of
// the comment or another tag.
func terminates(trimmed string) bool {
	return strings.HasPrefix(trimmed, "*/") || otherTag.MatchString(trimmed)
}

// enclosed reports whether the tag row sits inside a "/** ... */" block.
func enclosed(sm *sourcemap.SourceMap, tag int) bool {
	trimmed := sm.Trimmed(tag)
	if !strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "*/") {
		return false
	}
	return opened(sm, tag) && closed(sm, tag)
}

func opened(sm *sourcemap.SourceMap, tag int) bool {
	for row := tag - 1; row >= 0; row-- {
		trimmed := sm.Trimmed(row)
		switch {
		case strings.HasPrefix(trimmed, "/**"):
			return true
		case strings.HasPrefix(trimmed, "*/"), !strings.HasPrefix(trimmed, "*"):
			return false
		}
	}
	return false
}

func closed(sm *sourcemap.SourceMap, tag int) bool {
	if strings.HasSuffix(sm.Trimmed(tag), "*/") {
		return true
	}
	for row := tag + 1; row < sm.LineCount(); row++ {
		trimmed := sm.Trimmed(row)
		switch {
		case strings.HasSuffix(trimmed, "*/"):
			return strings.HasPrefix(trimmed, "*")
		case !strings.HasPrefix(trimmed, "*"):
			return false
		}
	}
	return false
}

func init() {
	rules.Register(New())
}
