// Package linter provides the per-file lint pipeline.
//
// The pipeline: read → parse declarations (Java only) → rule execution →
// violation collection. Callers use [LintFile] to run the pipeline and then
// apply their own processor chain (via [CLIProcessors]) to filter and
// transform the results.
package linter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/quill/internal/config"
	"github.com/wharflab/quill/internal/javasyntax"
	"github.com/wharflab/quill/internal/rules"
	_ "github.com/wharflab/quill/internal/rules/all" // Register all rules.
	"github.com/wharflab/quill/internal/sourcemap"
)

// ErrUnsupportedFile is returned for files no rule namespace handles.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ParseError reports a Java file whose declarations could not be extracted.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Input configures a single invocation of [LintFile].
type Input struct {
	// File is the path used in violation locations, relative to the project root.
	File string

	// Path is the file's location on disk. Defaults to File.
	Path string

	// Content is the file content to lint. If nil, LintFile reads from Path.
	Content []byte

	// Config is the resolved configuration. If nil, LintFile loads from Path.
	Config *config.Config

	// Registry supplies the rules. Nil means the default registry.
	Registry *rules.Registry
}

// Result contains the output of [LintFile].
type Result struct {
	// Violations are raw violations before processor filtering.
	Violations []rules.Violation

	// Declarations are the parsed Java declarations; nil for markup files.
	Declarations []*javasyntax.Declaration

	// Source is the linted content.
	Source []byte

	// Config is the resolved config (loaded or passed in via Input).
	Config *config.Config

	// ParseError is set when a Java file could not be parsed. Only line
	// rules ran in that case.
	ParseError *ParseError
}

// Namespace returns the rule namespace that lints a file, chosen by its
// extension: "checkstyle" for Java sources, "xml" for markup.
func Namespace(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java":
		return strings.TrimSuffix(rules.CheckstylePrefix, "/"), true
	case ".xml":
		return strings.TrimSuffix(rules.XMLPrefix, "/"), true
	default:
		return "", false
	}
}

// LintFile runs the full lint pipeline for one file.
// It returns raw violations before processor filtering. A Java file that does
// not parse returns a *ParseError and no violations.
func LintFile(ctx context.Context, input Input) (*Result, error) {
	path := input.Path
	if path == "" {
		path = input.File
	}

	namespace, ok := Namespace(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", input.File, ErrUnsupportedFile)
	}

	content := input.Content
	if content == nil {
		var err error
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	cfg := input.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			logrus.WithError(err).WithField("file", input.File).Warn("config load failed, using defaults")
			cfg = config.Default()
		}
	}

	registry := input.Registry
	if registry == nil {
		registry = rules.DefaultRegistry()
	}

	base := rules.LintInput{
		File:   input.File,
		Path:   path,
		Source: content,
		Map:    sourcemap.New(content),
	}

	var parseErr *ParseError
	if namespace+"/" == rules.CheckstylePrefix {
		file, err := javasyntax.Parse(ctx, content)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			parseErr = &ParseError{File: input.File, Err: err}
		default:
			base.Declarations = file.Declarations
		}
	}

	var violations []rules.Violation
	for _, rule := range registry.ByNamespace(namespace) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		code := rule.Metadata().Code
		if !isRuleEnabled(code, rule.Metadata().DefaultSeverity, cfg) {
			continue
		}
		if parseErr != nil && !linesOnly(rule) {
			continue
		}
		ruleInput := base
		ruleInput.Config = cfg.Rules.GetOptions(code)
		violations = append(violations, rule.Check(ruleInput)...)
	}

	return &Result{
		Violations:   violations,
		Declarations: base.Declarations,
		Source:       content,
		Config:       cfg,
		ParseError:   parseErr,
	}, nil
}

func linesOnly(rule rules.Rule) bool {
	lr, ok := rule.(rules.LineRule)
	return ok && lr.LinesOnly()
}
