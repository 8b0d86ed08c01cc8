package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/quill/internal/config"
	"github.com/wharflab/quill/internal/discovery"
	"github.com/wharflab/quill/internal/exclude"
	"github.com/wharflab/quill/internal/rules"
)

const (
	badJava = `/**
 * Sample.
 */
public final class Sample {
    /**
     * Run.
     */
    public void run() {
            int x = 1;
    }
}
`
	badXML   = "<project>\n    <a>1</a>\n</project>\n"
	cleanXML = "<a>\n  <b/>\n</a>\n"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// project writes files under a temp root and returns an Env covering them.
func project(t *testing.T, files map[string]string) *Env {
	t.Helper()
	root := t.TempDir()
	env := &Env{Root: root, Config: config.Default(), Log: quietLogger()}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		env.Files = append(env.Files, discovery.DiscoveredFile{Path: path, Rel: rel, ConfigRoot: root})
	}
	return env
}

func codes(vs []rules.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, fmt.Sprintf("%s:%d:%s", v.File(), v.Line(), v.RuleCode))
	}
	return out
}

type failingValidator struct{}

func (failingValidator) Name() string { return "pmd" }

func (failingValidator) Validate(context.Context, *Env) ([]rules.Violation, error) {
	return nil, errors.New("report missing")
}

func TestAggregator_CollectsAcrossValidators(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"src/Sample.java": badJava, "pom.xml": badXML})

	agg := New(Checkstyle(), XML())
	assert.Equal(t, StateIdle, agg.State())
	result := agg.Run(context.Background(), env)

	assert.Equal(t, StateFailed, agg.State())
	assert.Equal(t, []string{
		"pom.xml:2:xml/canonical-format",
		"src/Sample.java:9:checkstyle/cascade-indentation",
	}, codes(result.Violations()))
	require.Len(t, result.Reports, 2)
	assert.Equal(t, "checkstyle", result.Reports[0].Validator)
	assert.Equal(t, "xml", result.Reports[1].Validator)

	var verr *ViolationsError
	require.ErrorAs(t, result.Err(), &verr)
	assert.Equal(t, 2, verr.Count)
	assert.Equal(t, "quill", verr.Validator)
}

func TestAggregator_Passes(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"pom.xml": cleanXML})

	agg := New(Checkstyle(), XML())
	result := agg.Run(context.Background(), env)

	assert.Equal(t, StatePassed, agg.State())
	assert.True(t, result.Passed())
	assert.NoError(t, result.Err())
}

func TestAggregator_ExclusionsApplyPerValidator(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"src/Sample.java": badJava, "pom.xml": badXML})
	m, ignored := exclude.New([]string{`checkstyle:/src/.*\.java`, "findbugs:Sample::"})
	require.Empty(t, ignored)
	env.Exclusions = m

	result := New(Checkstyle(), XML()).Run(context.Background(), env)

	assert.Equal(t, []string{"pom.xml:2:xml/canonical-format"}, codes(result.Violations()))
	require.Error(t, result.Err())
	assert.Equal(t, "1 xml violations (see log above)", result.Err().Error())
}

func TestAggregator_InvalidPatternFailsOnlyItsValidator(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"src/Sample.java": badJava, "pom.xml": badXML})
	m, _ := exclude.New([]string{"checkstyle:[unclosed"})
	env.Exclusions = m

	result := New(Checkstyle(), XML()).Run(context.Background(), env)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "checkstyle", result.Errors[0].Validator)
	var patternErr *exclude.PatternError
	require.ErrorAs(t, result.Err(), &patternErr)
	assert.Equal(t, []string{"pom.xml:2:xml/canonical-format"}, codes(result.Violations()))
}

func TestAggregator_FailedValidatorDoesNotHideOthers(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"pom.xml": badXML})

	agg := New(failingValidator{}, XML())
	result := agg.Run(context.Background(), env)

	assert.Equal(t, StateFailed, agg.State())
	require.Len(t, result.Errors, 1)
	assert.EqualError(t, result.Errors[0], "pmd validator failed: report missing")
	assert.Equal(t, 1, result.Count())
	assert.EqualError(t, result.Err(), "1 xml violations (see log above)\npmd validator failed: report missing")
}

func TestAggregator_LogsViolationsAtWarn(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"pom.xml": badXML})
	log, hook := logtest.NewNullLogger()
	env.Log = log

	New(XML()).Run(context.Background(), env)

	var lines []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			lines = append(lines, e.Message)
		}
	}
	assert.Contains(t, lines, "pom.xml[2]: XML is not formatted canonically (canonical-format)")
}

func TestAggregator_HardFailureKeepsViolationCount(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"src/Sample.java": badJava})

	result := New(Checkstyle(), failingValidator{}).Run(context.Background(), env)

	require.Len(t, result.Errors, 1)
	err := result.Err()
	var verr *ViolationsError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Count)
	assert.Equal(t, "checkstyle", verr.Validator)
	var vaerr *ValidatorError
	require.ErrorAs(t, err, &vaerr)
	assert.Equal(t, "pmd", vaerr.Validator)
}

func TestAggregator_Canceled(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"pom.xml": badXML})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := New(XML())
	result := agg.Run(ctx, env)

	assert.Equal(t, StateFailed, agg.State())
	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Err(), context.Canceled)
}

func TestAggregator_RegisterBeforeRun(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"pom.xml": badXML})

	agg := New()
	agg.Register(XML())
	result := agg.Run(context.Background(), env)
	agg.Register(Checkstyle())

	require.Len(t, result.Reports, 1)
	assert.Equal(t, "xml", result.Reports[0].Validator)
}

func TestAggregator_InlineSuppression(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{
		"pom.xml": "<!-- quill global ignore=canonical-format -->\n" + badXML,
	})

	result := New(XML()).Run(context.Background(), env)
	assert.True(t, result.Passed(), "violations: %v", codes(result.Violations()))
}

func TestAggregator_UnusedDirective(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{
		"pom.xml": "<!-- quill global ignore=checkstyle/puzzle-format -->\n" + cleanXML,
	})
	env.Config.InlineDirectives.WarnUnused = true

	result := New(XML()).Run(context.Background(), env)

	require.Len(t, result.Reports, 2)
	assert.Equal(t, "quill", result.Reports[1].Validator)
	assert.Contains(t, codes(result.Violations()), "pom.xml:1:quill/unused-directive")
}

func TestValidateOne(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"pom.xml": badXML, "src/Sample.java": badJava})

	err := ValidateOne(context.Background(), XML(), env)
	var verr *ViolationsError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "xml", verr.Validator)
	assert.Equal(t, 1, verr.Count)
}

func TestCheckstyle_ParseError(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"Broken.java": "class A {\n  void x( {\n}\n"})

	vs, err := Checkstyle().Validate(context.Background(), env)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, JavaSyntaxCode, vs[0].RuleCode)
	assert.Contains(t, vs[0].Message, "Problem parsing Java source")
	assert.Equal(t, rules.SeverityError, vs[0].Severity)
	assert.Equal(t, "Broken.java:2:checkstyle/cascade-indentation", codes(vs[1:])[0],
		"line checks run without declarations")
}

func TestCheckstyle_FileTooLarge(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"src/Sample.java": badJava})
	env.Config.Scan.MaxFileSize = 10

	vs, err := Checkstyle().Validate(context.Background(), env)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, FileCode, vs[0].RuleCode)
	assert.True(t, vs[0].Location.IsFileLevel())
	assert.Contains(t, vs[0].Message, "Problem reading file")
}

func TestCheckstyle_IgnoresOtherNamespaces(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"pom.xml": badXML})

	vs, err := Checkstyle().Validate(context.Background(), env)
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestCheckstyle_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()
	files := make(map[string]string)
	for i := range 8 {
		files[fmt.Sprintf("src/S%d.java", i)] = badJava
	}

	sequential := project(t, files)
	parallel := project(t, files)
	parallel.Config.Scan.Jobs = 4

	want := New(Checkstyle()).Run(context.Background(), sequential).Violations()
	got := New(Checkstyle()).Run(context.Background(), parallel).Violations()

	assert.Len(t, got, 8)
	assert.Equal(t, codes(want), codes(got))
}

func TestEngine_ImportsReport(t *testing.T) {
	t.Parallel()
	env := project(t, map[string]string{"src/main/java/com/example/Foo.java": "class Foo {}\n"})
	report := fmt.Sprintf(`<?xml version="1.0"?>
<checkstyle version="8.0">
  <file name="%s">
    <error line="3" severity="error" message="Unused import - java.util.List."
      source="com.puppycrawl.tools.checkstyle.checks.imports.UnusedImportsCheck"/>
  </file>
</checkstyle>
`, filepath.Join(env.Root, "src", "main", "java", "com", "example", "Foo.java"))
	require.NoError(t, os.WriteFile(filepath.Join(env.Root, "pmd.xml"), []byte(report), 0o600))

	result := New(Engine("pmd", "pmd.xml")).Run(context.Background(), env)

	assert.Equal(t, []string{"src/main/java/com/example/Foo.java:3:pmd/UnusedImports"}, codes(result.Violations()))
	var verr *ViolationsError
	require.ErrorAs(t, result.Err(), &verr)
	assert.Equal(t, "pmd", verr.Validator)
}

func TestEngine_MissingReport(t *testing.T) {
	t.Parallel()
	env := project(t, nil)

	result := New(Engine("findbugs", "spotbugs.xml")).Run(context.Background(), env)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "findbugs", result.Errors[0].Validator)
	assert.ErrorIs(t, result.Err(), os.ErrNotExist)
}
