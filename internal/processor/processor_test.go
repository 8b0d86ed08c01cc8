package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/quill/internal/config"
	"github.com/wharflab/quill/internal/exclude"
	"github.com/wharflab/quill/internal/rules"
)

func violationAt(file string, line int, code string) rules.Violation {
	return rules.NewViolation(rules.NewLineLocation(file, line), code, "msg", rules.SeverityError)
}

func summaries(vs []rules.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Location.File+":"+v.Location.Lines()+":"+v.RuleCode)
	}
	return out
}

func TestChain_Pipeline(t *testing.T) {
	t.Parallel()

	const guarded = `class Guarded {
    // quill ignore=cascade-indentation
  int x;
}
`
	sources := sampleSources()
	sources["src/main/java/com/example/Guarded.java"] = []byte(guarded)

	cfg := config.Default()
	cfg.Rules.Set("checkstyle/javadoc-location", config.RuleConfig{
		Exclude: config.ExcludeConfig{Paths: []string{"src/test/**"}},
	})
	cfg.Rules.Set("pmd/UnusedLocalVariable", config.RuleConfig{Severity: "off"})
	matcher, ignored := exclude.New([]string{"checkstyle:/target/.*", "xml:**/generated/*.xml"})
	require.Empty(t, ignored)

	in := []rules.Violation{
		violationAt(".\\src\\main\\java\\com\\example\\Sample.java", 7, "checkstyle/protected-method-in-final-class"),
		violationAt("src/main/java/com/example/Sample.java", 7, "checkstyle/protected-method-in-final-class"),
		violationAt("src/main/java/com/example/Sample.java", 8, "pmd/UnusedLocalVariable"),
		violationAt("src/test/java/com/example/SampleTest.java", 3, "checkstyle/javadoc-location"),
		violationAt("target/generated-sources/Gen.java", 1, "checkstyle/cascade-indentation"),
		violationAt("src/main/resources/generated/beans.xml", 1, "xml/canonical-format"),
		violationAt("src/main/java/com/example/Guarded.java", 3, "checkstyle/cascade-indentation"),
		violationAt("pom.xml", 4, "xml/canonical-format"),
	}

	chain := NewChain(
		NewPathNormalization(),
		NewSeverityOverride(),
		NewEnableFilter(),
		NewExclusionFilter(),
		NewInlineDirectiveFilterWithRegistry(rules.NewRegistry()),
		NewDeduplication(),
		NewSorting(),
		NewSnippetAttachment(),
	)
	result := chain.Process(in, NewContext(matcher, cfg, sources))

	assert.Equal(t, []string{
		"pom.xml:4:xml/canonical-format",
		"src/main/java/com/example/Sample.java:7:checkstyle/protected-method-in-final-class",
	}, summaries(result))
	assert.Equal(t, "    <artifactId>sample</artifactId>", result[0].SourceCode)
	assert.Equal(t, "    protected void run() {", result[1].SourceCode)
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()
	in := []rules.Violation{violationAt("pom.xml", 1, "xml/canonical-format")}
	result := NewChain().Process(in, NewContext(nil, nil, nil))
	assert.Equal(t, in, result)
}

func TestPathNormalization(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want string }{
		{"src\\main\\java\\com\\example\\Sample.java", "src/main/java/com/example/Sample.java"},
		{"./pom.xml", "pom.xml"},
		{"module-a/./src/../pom.xml", "module-a/pom.xml"},
		{"src/main/resources/beans.xml", "src/main/resources/beans.xml"},
		{"", ""},
	}
	for _, tt := range tests {
		result := NewPathNormalization().Process([]rules.Violation{violationAt(tt.in, 1, "xml/canonical-format")}, nil)
		require.Len(t, result, 1)
		assert.Equal(t, tt.want, result[0].Location.File, "input %q", tt.in)
	}
}

func TestDeduplication(t *testing.T) {
	t.Parallel()
	// Two Maven modules sharing a PMD report repeat the same finding.
	unused := rules.NewViolation(rules.NewLineLocation("src/main/java/A.java", 8),
		"pmd/UnusedLocalVariable", "Avoid unused local variables such as 'a'.", rules.SeverityWarning)
	other := rules.NewViolation(rules.NewLineLocation("src/main/java/A.java", 8),
		"pmd/UnusedLocalVariable", "Avoid unused local variables such as 'b'.", rules.SeverityWarning)

	result := NewDeduplication().Process([]rules.Violation{
		unused, unused, other,
		violationAt("src/main/java/A.java", 9, "pmd/UnusedLocalVariable"),
		violationAt("src/main/java/A.java", 8, "checkstyle/cascade-indentation"),
	}, nil)

	assert.Len(t, result, 4)
}

func TestSorting(t *testing.T) {
	t.Parallel()
	result := NewSorting().Process([]rules.Violation{
		violationAt("src/main/java/B.java", 2, "pmd/UnusedImports"),
		violationAt("src/main/java/B.java", 2, "checkstyle/cascade-indentation"),
		violationAt("pom.xml", 9, "xml/canonical-format"),
		violationAt("src/main/java/A.java", 1, "checkstyle/javadoc-location"),
	}, nil)

	assert.Equal(t, []string{
		"pom.xml:9:xml/canonical-format",
		"src/main/java/A.java:1:checkstyle/javadoc-location",
		"src/main/java/B.java:2:checkstyle/cascade-indentation",
		"src/main/java/B.java:2:pmd/UnusedImports",
	}, summaries(result))
}

func TestEnableFilter(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Rules.Exclude = append(cfg.Rules.Exclude, "checkstyle/cascade-indentation", "xml/canonical-format")

	off := violationAt("src/main/java/A.java", 3, "pmd/UnusedImports")
	off.Severity = rules.SeverityOff

	result := NewEnableFilter().Process([]rules.Violation{
		violationAt("src/main/java/A.java", 1, "checkstyle/cascade-indentation"),
		violationAt("src/main/java/A.java", 2, "checkstyle/puzzle-format"),
		violationAt("pom.xml", 1, "xml/canonical-format"),
		off,
	}, NewContext(nil, cfg, nil))

	assert.Equal(t, []string{"src/main/java/A.java:2:checkstyle/puzzle-format"}, summaries(result))
}

func TestExclusionFilter_RulePaths(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Rules.Set("checkstyle/javadoc-location", config.RuleConfig{
		Exclude: config.ExcludeConfig{Paths: []string{"src/test/**", "target/**", "package-info.java"}},
	})

	result := NewExclusionFilter().Process([]rules.Violation{
		violationAt("src/main/java/App.java", 1, "checkstyle/javadoc-location"),
		violationAt("src/test/java/AppTest.java", 1, "checkstyle/javadoc-location"),
		violationAt("target/generated-sources/Gen.java", 1, "checkstyle/javadoc-location"),
		violationAt("src/main/java/com/example/package-info.java", 1, "checkstyle/javadoc-location"),
		violationAt("src/test/java/AppTest.java", 1, "checkstyle/cascade-indentation"),
	}, NewContext(nil, cfg, nil))

	assert.Equal(t, []string{
		"src/main/java/App.java:1:checkstyle/javadoc-location",
		"src/test/java/AppTest.java:1:checkstyle/cascade-indentation",
	}, summaries(result))
}

func TestSeverityOverride(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Rules.Set("checkstyle/cascade-indentation", config.RuleConfig{Severity: "info"})
	cfg.Rules.Set("xml/canonical-format", config.RuleConfig{Severity: "warning"})

	result := NewSeverityOverride().Process([]rules.Violation{
		violationAt("src/main/java/A.java", 1, "checkstyle/cascade-indentation"),
		violationAt("src/main/java/A.java", 2, "checkstyle/puzzle-format"),
		violationAt("pom.xml", 1, "xml/canonical-format"),
	}, NewContext(nil, cfg, nil))

	require.Len(t, result, 3)
	assert.Equal(t, rules.SeverityInfo, result[0].Severity)
	assert.Equal(t, rules.SeverityError, result[1].Severity)
	assert.Equal(t, rules.SeverityWarning, result[2].Severity)
}

func TestSeverityOverride_OptionsEnableOffRule(t *testing.T) {
	t.Parallel()
	registry := rules.NewRegistry()
	registry.Register(&stubRule{code: "pmd/UnusedImports", severity: rules.SeverityOff})

	cfg := config.Default()
	cfg.Rules.Set("pmd/UnusedImports", config.RuleConfig{Options: map[string]any{"minimum": 2}})

	v := violationAt("src/main/java/A.java", 3, "pmd/UnusedImports")
	v.Severity = rules.SeverityOff
	result := NewSeverityOverrideWithRegistry(registry).Process([]rules.Violation{v}, NewContext(nil, cfg, nil))

	require.Len(t, result, 1)
	assert.Equal(t, rules.SeverityWarning, result[0].Severity)
}

// stubRule registers a code and default severity without checking anything.
type stubRule struct {
	code     string
	severity rules.Severity
}

func (r *stubRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{Code: r.code, DefaultSeverity: r.severity}
}

func (r *stubRule) Check(rules.LintInput) []rules.Violation {
	return nil
}
