// Package testutil provides test helpers for the source linter.
package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wharflab/quill/internal/javasyntax"
	"github.com/wharflab/quill/internal/rules"
	"github.com/wharflab/quill/internal/sourcemap"
)

// DefaultJavaFile is the file name used when a test case does not set one.
const DefaultJavaFile = "src/main/java/com/example/Sample.java"

// ParseJava parses Java source and fails the test on syntax errors.
func ParseJava(tb testing.TB, content string) *javasyntax.File {
	tb.Helper()

	f, err := javasyntax.Parse(context.Background(), []byte(content))
	if err != nil {
		tb.Fatalf("failed to parse Java source: %v", err)
	}
	return f
}

// MakeLintInput creates a LintInput for testing a rule. Java files get their
// declarations parsed; other files carry only the source.
func MakeLintInput(tb testing.TB, file, content string) rules.LintInput {
	tb.Helper()

	input := rules.LintInput{
		File:   file,
		Source: []byte(content),
		Map:    sourcemap.New([]byte(content)),
	}
	if strings.EqualFold(filepath.Ext(file), ".java") {
		input.Declarations = ParseJava(tb, content).Declarations
	}
	return input
}

// MakeLintInputWithConfig creates a LintInput with rule configuration.
func MakeLintInputWithConfig(tb testing.TB, file, content string, config any) rules.LintInput {
	tb.Helper()

	input := MakeLintInput(tb, file, content)
	input.Config = config
	return input
}

// RuleTestCase defines a test case for table-driven rule tests.
type RuleTestCase struct {
	// Name is the test case name.
	Name string

	// File is the path passed to the rule. Defaults to DefaultJavaFile.
	File string

	// Content is the source to lint.
	Content string

	// Config is the optional rule configuration.
	Config any

	// WantViolations is the expected number of violations.
	// Use -1 to skip the count check.
	WantViolations int

	// WantLines are the expected 1-based lines in violation order.
	WantLines []int

	// WantMessages are substrings expected in violation messages.
	WantMessages []string
}

// RunRuleTests runs a table of test cases against a rule.
func RunRuleTests(t *testing.T, rule rules.Rule, cases []RuleTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			file := tc.File
			if file == "" {
				file = DefaultJavaFile
			}
			input := MakeLintInputWithConfig(t, file, tc.Content, tc.Config)
			violations := rule.Check(input)

			if tc.WantViolations >= 0 && len(violations) != tc.WantViolations {
				t.Errorf("got %d violations, want %d", len(violations), tc.WantViolations)
				for i, v := range violations {
					t.Logf("  [%d] %s", i, v)
				}
			}

			for _, v := range violations {
				if v.RuleCode != rule.Metadata().Code {
					t.Errorf("violation RuleCode = %q, want %q", v.RuleCode, rule.Metadata().Code)
				}
			}

			if len(tc.WantLines) > 0 {
				got := make([]int, len(violations))
				for i, v := range violations {
					got[i] = v.Line()
				}
				if !equalInts(got, tc.WantLines) {
					t.Errorf("violation lines = %v, want %v", got, tc.WantLines)
				}
			}

			for i, msg := range tc.WantMessages {
				if i >= len(violations) {
					t.Errorf(
						"expected violation[%d] with message containing %q, but only got %d violations",
						i,
						msg,
						len(violations),
					)
					continue
				}
				if !strings.Contains(violations[i].Message, msg) {
					t.Errorf("violation[%d].Message = %q, want substring %q", i, violations[i].Message, msg)
				}
			}
		})
	}
}

// AssertNoViolations fails the test if there are any violations.
func AssertNoViolations(tb testing.TB, violations []rules.Violation) {
	tb.Helper()
	if len(violations) > 0 {
		tb.Errorf("expected no violations, got %d:", len(violations))
		for _, v := range violations {
			tb.Logf("  - %s", v)
		}
	}
}

// AssertViolationCount fails if the violation count doesn't match.
func AssertViolationCount(tb testing.TB, violations []rules.Violation, want int) {
	tb.Helper()
	if len(violations) != want {
		tb.Errorf("got %d violations, want %d", len(violations), want)
		for _, v := range violations {
			tb.Logf("  - %s", v)
		}
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
