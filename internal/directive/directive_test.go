package directive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/quill/internal/rules"
	"github.com/wharflab/quill/internal/sourcemap"
)

func parse(content string) *ParseResult {
	return Parse(sourcemap.New([]byte(content)), nil)
}

func TestParseQuillNextLine(t *testing.T) {
	result := parse(`class A {
    // quill ignore=checkstyle/puzzle-format

    // unrelated comment
    int a;
}`)

	require.Len(t, result.Directives, 1)
	d := result.Directives[0]
	assert.Equal(t, TypeNextLine, d.Type)
	assert.Equal(t, []string{"checkstyle/puzzle-format"}, d.Rules)
	assert.Equal(t, SourceQuill, d.Source)
	assert.Equal(t, LineRange{Start: 4, End: 4}, d.AppliesTo, "blank and comment lines are skipped")
}

func TestParseQuillGlobalWithReason(t *testing.T) {
	result := parse("// quill global ignore=cascade-indentation,brackets-structure reason=generated code\nclass A {}\n")

	require.Len(t, result.Directives, 1)
	d := result.Directives[0]
	assert.Equal(t, TypeGlobal, d.Type)
	assert.Equal(t, []string{"cascade-indentation", "brackets-structure"}, d.Rules)
	assert.Equal(t, "generated code", d.Reason)
	assert.Equal(t, LineRange{Start: 0, End: math.MaxInt}, d.AppliesTo)
}

func TestParseQuillAtEOF(t *testing.T) {
	result := parse("class A {}\n// quill ignore=all")
	require.Len(t, result.Directives, 1)
	assert.Equal(t, LineRange{Start: -1, End: -1}, result.Directives[0].AppliesTo)
}

func TestParseCheckstyleLines(t *testing.T) {
	result := parse(`class A {
    /**
     * Run.
     * @checkstyle BracketsStructure, CascadeIndentationCheck (3 lines)
     */
    void run() {
    }
}`)

	require.Len(t, result.Directives, 1)
	d := result.Directives[0]
	assert.Equal(t, TypeLines, d.Type)
	assert.Equal(t, SourceCheckstyle, d.Source)
	assert.Equal(t, []string{"BracketsStructure", "CascadeIndentationCheck"}, d.Rules)
	assert.Equal(t, LineRange{Start: 3, End: 6}, d.AppliesTo)
}

func TestParseCheckstyleAllLines(t *testing.T) {
	result := parse("<!-- @checkstyle CanonicalFormat (all lines) -->\n<a/>\n")
	require.Len(t, result.Directives, 1)
	assert.Equal(t, TypeGlobal, result.Directives[0].Type)
}

func TestParseCheckstyleTrailingComment(t *testing.T) {
	result := parse(`class A {
    int a = f(1, // @checkstyle BracketsStructure (1 line)
        2);
}`)
	require.Len(t, result.Directives, 1)
	assert.Equal(t, LineRange{Start: 1, End: 2}, result.Directives[0].AppliesTo)
}

func TestParseRegularComment(t *testing.T) {
	result := parse("// just a comment about quill\n/* nothing here */\nclass A {}\n")
	assert.Empty(t, result.Directives)
	assert.Empty(t, result.Errors)
}

func TestParseEmptyRuleList(t *testing.T) {
	result := parse("// quill ignore=,\nclass A {}\n")
	assert.Empty(t, result.Directives)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "empty rule list", result.Errors[0].Message)
}

func TestParseWithValidation(t *testing.T) {
	known := func(code string) bool { return code == "checkstyle/puzzle-format" }
	result := Parse(sourcemap.New([]byte("// quill ignore=checkstyle/puzzle-format,nope\nclass A {}\n")), known)

	require.Len(t, result.Directives, 1, "directive is kept even with unknown rules")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "unknown rule code(s): nope", result.Errors[0].Message)
}

func TestMatchesRule(t *testing.T) {
	cases := []struct {
		pattern string
		code    string
		want    bool
	}{
		{"checkstyle/puzzle-format", "checkstyle/puzzle-format", true},
		{"puzzle-format", "checkstyle/puzzle-format", true},
		{"PuzzleFormat", "checkstyle/puzzle-format", true},
		{"PuzzleFormatCheck", "checkstyle/puzzle-format", true},
		{"xml/puzzle-format", "checkstyle/puzzle-format", false},
		{"JavadocLocation", "checkstyle/puzzle-format", false},
		{"all", "checkstyle/puzzle-format", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchesRule(tc.pattern, tc.code), "%s vs %s", tc.pattern, tc.code)
	}
}

func violationAt(code string, line int) rules.Violation {
	return rules.NewViolation(rules.NewLineLocation("A.java", line), code, "msg", rules.SeverityError)
}

func TestFilter(t *testing.T) {
	directives := []Directive{
		{Type: TypeLines, Rules: []string{"BracketsStructure"}, AppliesTo: LineRange{Start: 3, End: 6}},
		{Type: TypeNextLine, Rules: []string{"all"}, AppliesTo: LineRange{Start: 10, End: 10}},
		{Type: TypeNextLine, Rules: []string{"javadoc-location"}, AppliesTo: LineRange{Start: 20, End: 20}},
	}
	violations := []rules.Violation{
		violationAt("checkstyle/brackets-structure", 5),
		violationAt("checkstyle/brackets-structure", 8),
		violationAt("checkstyle/cascade-indentation", 5),
		violationAt("checkstyle/puzzle-format", 11),
		rules.NewViolation(rules.NewFileLocation("A.java"), "checkstyle/javadoc-location", "msg", rules.SeverityError),
	}

	result := Filter(violations, directives)
	assert.Len(t, result.Suppressed, 2)
	require.Len(t, result.Violations, 3)
	assert.Equal(t, 8, result.Violations[0].Line())
	assert.Equal(t, "checkstyle/cascade-indentation", result.Violations[1].RuleCode)
	require.Len(t, result.UnusedDirectives, 1)
	assert.Equal(t, 20, result.UnusedDirectives[0].AppliesTo.Start)
}

func TestFilterGlobalCoversFileLevel(t *testing.T) {
	directives := []Directive{{Type: TypeGlobal, Rules: []string{"all"}, AppliesTo: GlobalRange()}}
	v := rules.NewViolation(rules.NewFileLocation("a.xml"), "xml/canonical-format", "msg", rules.SeverityError)
	result := Filter([]rules.Violation{v}, directives)
	assert.Empty(t, result.Violations)
	assert.Empty(t, result.UnusedDirectives)
}

func TestDirectiveType_String(t *testing.T) {
	assert.Equal(t, "next-line", TypeNextLine.String())
	assert.Equal(t, "lines", TypeLines.String())
	assert.Equal(t, "global", TypeGlobal.String())
	assert.Equal(t, "unknown", DirectiveType(99).String())
}

func TestLineRange_Contains(t *testing.T) {
	r := LineRange{Start: 2, End: 4}
	assert.False(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(5))
}
