// Package reporter renders the violations of a quill run.
//
// Every reporter receives the merged violations of all validators together
// with the raw sources, so text output can quote the offending Java or XML
// lines. Formats:
//   - text: terminal output with lipgloss styling and chroma highlighting
//   - json: one document with files, summary and validator errors
//   - sarif: SARIF 2.1.0 for code scanning uploads
//   - github-actions: ::error/::warning workflow commands
//   - markdown: tables for pull request comments
package reporter

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/wharflab/quill/internal/rules"
)

// ReportMetadata describes the run that produced the violations.
type ReportMetadata struct {
	// FilesScanned counts the Java and XML files the validators looked at.
	FilesScanned int
	// RulesEnabled counts built-in checks whose severity is not "off".
	RulesEnabled int
	// ValidatorErrors describes validators that could not run.
	ValidatorErrors []string
}

// Reporter writes violations in one output format.
type Reporter interface {
	Report(violations []rules.Violation, sources map[string][]byte, metadata ReportMetadata) error
}

// SortViolations returns a sorted copy: by file, then line and column, then
// validator so checkstyle findings on a line come before pmd ones, then rule
// code. The input slice is left untouched.
func SortViolations(violations []rules.Violation) []rules.Violation {
	sorted := slices.Clone(violations)
	slices.SortStableFunc(sorted, func(a, b rules.Violation) int {
		return cmp.Or(
			cmp.Compare(a.Location.File, b.Location.File),
			cmp.Compare(a.Location.Start.Line, b.Location.Start.Line),
			cmp.Compare(a.Location.Start.Column, b.Location.Start.Column),
			cmp.Compare(a.Validator(), b.Validator()),
			cmp.Compare(a.RuleCode, b.RuleCode),
		)
	})
	return sorted
}

// Format names an output format.
type Format string

const (
	FormatText          Format = "text"
	FormatJSON          Format = "json"
	FormatSARIF         Format = "sarif"
	FormatGitHubActions Format = "github-actions"
	FormatMarkdown      Format = "markdown"
)

// formatNames maps every accepted spelling, aliases included, to its format.
var formatNames = map[string]Format{
	"":               FormatText,
	"text":           FormatText,
	"json":           FormatJSON,
	"sarif":          FormatSARIF,
	"github-actions": FormatGitHubActions,
	"github":         FormatGitHubActions,
	"markdown":       FormatMarkdown,
	"md":             FormatMarkdown,
}

// ParseFormat resolves the output.format setting. Names are case sensitive.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatNames[s]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown format: %q (valid: %s)", s, strings.Join(formatList(), ", "))
}

func formatList() []string {
	return []string{
		string(FormatText), string(FormatJSON), string(FormatSARIF),
		string(FormatGitHubActions), string(FormatMarkdown),
	}
}

// Options configures New.
type Options struct {
	Format Format
	Writer io.Writer

	// Color forces styled text output on or off; nil detects a terminal.
	Color *bool
	// ShowSource quotes the offending source lines in text output.
	ShowSource bool

	// ToolName, ToolVersion and ToolURI fill the SARIF driver block.
	ToolName    string
	ToolVersion string
	ToolURI     string
}

// DefaultOptions is colored-if-possible text on stdout with source quotes.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Writer:      os.Stdout,
		ShowSource:  true,
		ToolName:    defaultToolName,
		ToolURI:     defaultToolURI,
		ToolVersion: "dev",
	}
}

// New builds the reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		text := NewTextReporter(TextOptions{
			Color:           opts.Color,
			SyntaxHighlight: opts.Color == nil || *opts.Color,
			ShowSource:      opts.ShowSource,
		})
		return textReport{text: text, w: w}, nil
	case FormatJSON:
		return NewJSONReporter(w), nil
	case FormatSARIF:
		return NewSARIFReporter(w, opts.ToolName, opts.ToolVersion, opts.ToolURI), nil
	case FormatGitHubActions:
		return NewGitHubActionsReporter(w), nil
	case FormatMarkdown:
		return NewMarkdownReporter(w), nil
	}
	return nil, fmt.Errorf("unknown format: %q", opts.Format)
}

// textReport binds a TextReporter to its writer. The text format prints no
// run metadata.
type textReport struct {
	text *TextReporter
	w    io.Writer
}

func (r textReport) Report(violations []rules.Violation, sources map[string][]byte, _ ReportMetadata) error {
	return r.text.Print(r.w, violations, sources)
}

// GetWriter opens the output.path destination. "stdout" (or empty) and
// "stderr" name the standard streams and close as a no-op; anything else is
// a file that is created or truncated.
func GetWriter(path string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch path {
	case "", "stdout":
		return os.Stdout, noop, nil
	case "stderr":
		return os.Stderr, noop, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
