package rules

import "testing"

func TestLintInput_SourceMap(t *testing.T) {
	input := LintInput{Source: []byte("class A {\n}\n")}

	sm := input.SourceMap()
	if sm.Line(0) != "class A {" {
		t.Errorf("Line(0) = %q", sm.Line(0))
	}
}

func TestLintInput_NewLineViolationIsOneBased(t *testing.T) {
	input := LintInput{File: "A.java"}
	v := input.NewLineViolation(0, "checkstyle/x", "m", SeverityError)
	if v.Line() != 1 {
		t.Errorf("Line() = %d, want 1", v.Line())
	}
}
