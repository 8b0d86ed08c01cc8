// Package multilinejavadoctags implements the multiline-javadoc-tags check:
// continuation lines of a javadoc tag in a method or constructor comment are
// indented one space past the tag's "@".
package multilinejavadoctags

import (
	"strings"

	"github.com/wharflab/quill/internal/javasyntax"
	"github.com/wharflab/quill/internal/rules"
	"github.com/wharflab/quill/internal/sourcemap"
)

// Code is the rule identifier.
const Code = rules.CheckstylePrefix + "multiline-javadoc-tags"

const (
	msgMissing = "Problem finding method comment"
	msgIndent  = "Should contain one indentation space"
)

// Rule implements the multiline-javadoc-tags check.
type Rule struct{}

// New creates a new multiline-javadoc-tags rule instance.
func New() *Rule {
	return &Rule{}
}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             Code,
		Name:             "Multiline Javadoc Tags",
		Description:      "Continuation lines of javadoc tags must be indented by one space",
		DocURL:           "https://github.com/wharflab/quill/blob/main/docs/rules/checkstyle/multiline-javadoc-tags.md",
		DefaultSeverity:  rules.SeverityError,
		Category:         "documentation",
		EnabledByDefault: true,
	}
}

// Check validates the doc comment of every method and constructor.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	meta := r.Metadata()
	sm := input.SourceMap()

	var violations []rules.Violation
	for _, decl := range input.Declarations {
		if decl.Kind != javasyntax.KindMethod && decl.Kind != javasyntax.KindConstructor {
			continue
		}
		start, end, ok := commentBounds(sm, decl)
		if !ok {
			violations = append(violations,
				input.NewLineViolation(decl.Line(), meta.Code, msgMissing, meta.DefaultSeverity).WithDocURL(meta.DocURL))
			continue
		}
		for _, row := range misindented(sm, start, end) {
			violations = append(violations,
				input.NewLineViolation(row, meta.Code, msgIndent, meta.DefaultSeverity).WithDocURL(meta.DocURL))
		}
	}
	return violations
}

// commentBounds locates the "/**" and "*/" rows of the comment above decl.
func commentBounds(sm *sourcemap.SourceMap, decl *javasyntax.Declaration) (int, int, bool) {
	end, ok := sm.FindTrimmedUp(decl.Line(), decl.Floor, "*/").Row()
	if !ok {
		return 0, 0, false
	}
	start, ok := sm.FindUp(end+1, decl.Floor, func(line string) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "/**")
	}).Row()
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// misindented returns the continuation rows between start and the closing
// row end whose text does not start one column past the current tag's "@".
func misindented(sm *sourcemap.SourceMap, start, end int) []int {
	var bad []int
	tagged := false
	tagIndex := 0
	for row := start; row < end; row++ {
		line := sm.Line(row)
		if strings.Contains(line, "* @") {
			tagIndex = strings.Index(line, "@")
			tagged = true
			continue
		}
		if !tagged {
			continue
		}
		star := strings.Index(line, "*")
		if star < 0 {
			continue
		}
		text := star + 1
		for text < len(line) && line[text] == ' ' {
			text++
		}
		if text == len(line) {
			continue
		}
		if text != tagIndex+1 {
			bad = append(bad, row)
		}
	}
	return bad
}

func init() {
	rules.Register(New())
}
