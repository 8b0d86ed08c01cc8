// Package validate runs validators over a project and aggregates their
// violations into one pass/fail outcome.
//
// A validator covers one family of findings: quill's own Java checks, the
// XML canonical-format check, or the report of one external engine. The
// Aggregator runs every registered validator in order, filters each one's
// violations through the processor chain (exclusions, inline directives,
// severity overrides), logs them to the build log and records hard
// failures without letting one broken validator hide the others.
package validate

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/quill/internal/config"
	"github.com/wharflab/quill/internal/discovery"
	"github.com/wharflab/quill/internal/exclude"
	"github.com/wharflab/quill/internal/rules"
)

// Validator produces the violations of one family of checks.
type Validator interface {
	// Name is the validator's namespace: "checkstyle", "xml", "pmd", "findbugs".
	Name() string

	// Validate scans env and returns raw violations. An error means the
	// validator could not run at all (bad configuration, unreadable report).
	Validate(ctx context.Context, env *Env) ([]rules.Violation, error)
}

// Env is the project a validation run covers.
type Env struct {
	// Root is the project root; file paths in violations are relative to it.
	Root string

	// Files are the discovered files, each with its root-relative path.
	Files []discovery.DiscoveredFile

	// Exclusions holds the checker:pattern exclusions. May be nil.
	Exclusions *exclude.Matcher

	// Config is the effective configuration. Nil means defaults.
	Config *config.Config

	// Log is the build log. Nil means the logrus standard logger.
	Log logrus.FieldLogger

	mu      sync.Mutex
	sources map[string][]byte
}

func (e *Env) config() *config.Config {
	if e.Config == nil {
		e.Config = config.Default()
	}
	return e.Config
}

func (e *Env) logger() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

// remember records the content of a scanned file for snippets and inline
// directives.
func (e *Env) remember(rel string, content []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sources == nil {
		e.sources = make(map[string][]byte)
	}
	e.sources[rel] = content
}

// Sources returns a copy of the file contents recorded so far, keyed by
// root-relative path.
func (e *Env) Sources() map[string][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.sources)
}

// rels returns the root-relative paths of the discovered files.
func (e *Env) rels() []string {
	out := make([]string, 0, len(e.Files))
	for _, f := range e.Files {
		out = append(out, f.Rel)
	}
	return out
}

// ViolationsError reports the violations that failed a run.
type ViolationsError struct {
	// Validator names the validator whose violations failed the run, or
	// "quill" when several did.
	Validator string
	Count     int
}

func (e *ViolationsError) Error() string {
	return fmt.Sprintf("%d %s violations (see log above)", e.Count, e.Validator)
}

// ValidatorError records a validator that could not run.
type ValidatorError struct {
	Validator string
	Err       error
}

func (e *ValidatorError) Error() string {
	return fmt.Sprintf("%s validator failed: %v", e.Validator, e.Err)
}

func (e *ValidatorError) Unwrap() error {
	return e.Err
}

// ValidateOne runs a single validator through a fresh aggregator.
func ValidateOne(ctx context.Context, v Validator, env *Env) error {
	return New(v).Run(ctx, env).Err()
}

// errCanceled marks a run interrupted by its context.
var errCanceled = errors.New("validation canceled")
