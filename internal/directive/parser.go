package directive

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wharflab/quill/internal/sourcemap"
)

// Regex patterns for directive parsing.
var (
	// quill [global] ignore=RULE1,RULE2 [reason=...]
	quillPattern = regexp.MustCompile(
		`(?i)^quill\s+(global\s+)?ignore\s*=\s*([A-Za-z0-9_,/-]+)(?:\s*;?\s*reason\s*=\s*(.*))?$`)

	// @checkstyle Rule1, Rule2 (N lines) or (all lines)
	checkstylePattern = regexp.MustCompile(
		`@checkstyle\s+([A-Za-z0-9_,/\s-]+?)\s*\(\s*(\d+|all)\s+lines?\s*\)`)
)

// RuleValidator is a function that checks if a rule code is known.
// Returns true if the rule exists in the registry.
type RuleValidator func(string) bool

// Parse extracts all inline directives from a SourceMap.
// If validator is non-nil, unknown rule codes generate parse errors.
func Parse(sm *sourcemap.SourceMap, validator RuleValidator) *ParseResult {
	result := &ParseResult{}

	for _, comment := range sm.Comments() {
		if d, err := parseQuill(comment, sm); d != nil || err != nil {
			collect(d, err, validator, result)
			continue
		}
		for _, m := range checkstylePattern.FindAllStringSubmatch(comment.Text, -1) {
			d, err := parseCheckstyle(comment, m)
			collect(d, err, validator, result)
		}
	}

	return result
}

func collect(d *Directive, err *ParseError, validator RuleValidator, result *ParseResult) {
	if err != nil {
		result.Errors = append(result.Errors, *err)
	}
	if d != nil {
		validateDirective(d, validator, result)
	}
}

// validateDirective validates rule codes and adds the directive or errors.
func validateDirective(d *Directive, validator RuleValidator, result *ParseResult) {
	if validator != nil {
		unknownRules := []string{}
		for _, rule := range d.Rules {
			if rule != "all" && !validator(rule) {
				unknownRules = append(unknownRules, rule)
			}
		}
		if len(unknownRules) > 0 {
			result.Errors = append(result.Errors, ParseError{
				Line:    d.Line,
				Message: "unknown rule code(s): " + strings.Join(unknownRules, ", "),
				RawText: d.RawText,
			})
		}
	}
	result.Directives = append(result.Directives, *d)
}

// parseQuill attempts to parse a quill-format directive.
func parseQuill(comment sourcemap.Comment, sm *sourcemap.SourceMap) (*Directive, *ParseError) {
	matches := quillPattern.FindStringSubmatch(comment.Text)
	if matches == nil {
		return nil, nil
	}

	rules, err := parseRuleList(matches[2])
	if err != nil {
		return nil, &ParseError{
			Line:    comment.Line,
			Message: err.Error(),
			RawText: comment.Text,
		}
	}

	d := &Directive{
		Rules:   rules,
		Line:    comment.Line,
		RawText: comment.Text,
		Source:  SourceQuill,
		Reason:  strings.TrimSpace(matches[3]),
	}

	if strings.TrimSpace(matches[1]) != "" {
		d.Type = TypeGlobal
		d.AppliesTo = GlobalRange()
	} else {
		d.Type = TypeNextLine
		d.AppliesTo = nextNonCommentLineRange(comment.Line, sm)
	}

	return d, nil
}

// parseCheckstyle builds a directive from one "@checkstyle" match. The
// suppression covers the directive's own line and the N lines after it.
func parseCheckstyle(comment sourcemap.Comment, m []string) (*Directive, *ParseError) {
	rules, err := parseRuleList(m[1])
	if err != nil {
		return nil, &ParseError{
			Line:    comment.Line,
			Message: err.Error(),
			RawText: comment.Text,
		}
	}

	d := &Directive{
		Rules:   rules,
		Line:    comment.Line,
		RawText: comment.Text,
		Source:  SourceCheckstyle,
	}
	if m[2] == "all" {
		d.Type = TypeGlobal
		d.AppliesTo = GlobalRange()
		return d, nil
	}

	n, convErr := strconv.Atoi(m[2])
	if convErr != nil {
		return nil, &ParseError{
			Line:    comment.Line,
			Message: "invalid line count: " + m[2],
			RawText: comment.Text,
		}
	}
	d.Type = TypeLines
	d.AppliesTo = LineRange{Start: comment.Line, End: comment.Line + n}
	return d, nil
}

// parseRuleList parses a comma-separated list of rule codes.
// Returns an error if the list is empty.
func parseRuleList(s string) ([]string, error) {
	parts := strings.Split(s, ",")
	rules := make([]string, 0, len(parts))

	for _, part := range parts {
		rule := strings.TrimSpace(part)
		if rule == "" {
			continue
		}
		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return nil, &parseRuleError{msg: "empty rule list"}
	}

	return rules, nil
}

type parseRuleError struct {
	msg string
}

func (e *parseRuleError) Error() string {
	return e.msg
}

// nextNonCommentLineRange finds the range for the next non-comment line.
// If there is no next line (directive at end of file), returns an empty range
// that won't match any line.
func nextNonCommentLineRange(directiveLine int, sm *sourcemap.SourceMap) LineRange {
	lineCount := sm.LineCount()

	for i := directiveLine + 1; i < lineCount; i++ {
		line := strings.TrimSpace(sm.Line(i))
		if line == "" || isCommentLine(line) {
			continue
		}
		return LineRange{Start: i, End: i}
	}

	return LineRange{Start: -1, End: -1}
}

func isCommentLine(trimmed string) bool {
	for _, prefix := range []string{"//", "/*", "*", "<!--"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
