package rules

import (
	"fmt"
	"strings"
)

// Rule namespaces. The namespace doubles as the validator name that owns a
// violation and as the checker key used by exclusion patterns.
const (
	// CheckstylePrefix is the namespace of quill's own Java source checks.
	CheckstylePrefix = "checkstyle/"

	// XMLPrefix is the namespace of markup file checks.
	XMLPrefix = "xml/"

	// PMDPrefix is the namespace of violations imported from PMD reports.
	PMDPrefix = "pmd/"

	// FindbugsPrefix is the namespace of violations imported from SpotBugs/FindBugs reports.
	FindbugsPrefix = "findbugs/"

	// QuillPrefix is the namespace of findings about the run itself (unreadable files, parse failures).
	QuillPrefix = "quill/"
)

// Subject identifies the program element a violation is attributed to.
// Bug-pattern engines report class and method names, which class:method:bug
// exclusion patterns match against.
type Subject struct {
	Class  string `json:"class,omitempty"`
	Method string `json:"method,omitempty"`
}

// Violation represents a single reported formatting or style defect.
// It is an immutable value: the With* helpers return modified copies.
type Violation struct {
	// Location specifies where the violation occurred.
	Location Location `json:"location"`

	// RuleCode is the namespaced check identifier (e.g., "checkstyle/cascade-indentation").
	RuleCode string `json:"rule"`

	// Message is a human-readable description of the issue.
	Message string `json:"message"`

	// Detail provides additional context (optional).
	Detail string `json:"detail,omitempty"`

	// Severity indicates how critical this violation is.
	Severity Severity `json:"severity"`

	// DocURL links to documentation about this rule (optional).
	DocURL string `json:"docUrl,omitempty"`

	// SourceCode is the source snippet where the violation occurred (optional).
	// Populated by post-processing; rules don't need to set this.
	SourceCode string `json:"sourceCode,omitempty"`

	// Subject is the class/method the violation belongs to, when known.
	Subject *Subject `json:"subject,omitempty"`
}

// NewViolation creates a new violation with the minimum required fields.
func NewViolation(loc Location, ruleCode, message string, severity Severity) Violation {
	return Violation{
		Location: loc,
		RuleCode: ruleCode,
		Message:  message,
		Severity: severity,
	}
}

// WithDetail adds a detail message to the violation.
func (v Violation) WithDetail(detail string) Violation {
	v.Detail = detail
	return v
}

// WithDocURL adds a documentation URL to the violation.
func (v Violation) WithDocURL(url string) Violation {
	v.DocURL = url
	return v
}

// WithSourceCode adds source code snippet to the violation.
func (v Violation) WithSourceCode(code string) Violation {
	v.SourceCode = code
	return v
}

// WithSubject attributes the violation to a class and method.
func (v Violation) WithSubject(class, method string) Violation {
	v.Subject = &Subject{Class: class, Method: method}
	return v
}

// File returns the file path from the location.
func (v Violation) File() string {
	return v.Location.File
}

// Line returns the starting line number.
func (v Violation) Line() int {
	return v.Location.Start.Line
}

// Validator returns the namespace of the rule code ("checkstyle" for
// "checkstyle/cascade-indentation"). Codes without a namespace report "quill".
func (v Violation) Validator() string {
	if ns, _, ok := strings.Cut(v.RuleCode, "/"); ok && ns != "" {
		return ns
	}
	return "quill"
}

// Check returns the rule name without its namespace.
func (v Violation) Check() string {
	if _, name, ok := strings.Cut(v.RuleCode, "/"); ok {
		return name
	}
	return v.RuleCode
}

// String renders the violation the way build logs show it:
// "<file>[<lines>]: <message> (<check>)".
func (v Violation) String() string {
	return fmt.Sprintf("%s[%s]: %s (%s)", v.Location.File, v.Location.Lines(), v.Message, v.Check())
}
