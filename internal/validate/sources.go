package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wharflab/quill/internal/discovery"
	"github.com/wharflab/quill/internal/fileval"
	"github.com/wharflab/quill/internal/javasyntax"
	"github.com/wharflab/quill/internal/linter"
	"github.com/wharflab/quill/internal/rules"
)

// Codes of scan-failure violations raised by the source validators.
const (
	// FileCode reports a file that failed pre-scan validation or could not be read.
	FileCode = rules.QuillPrefix + "file"

	// JavaSyntaxCode reports a Java file whose declarations could not be parsed.
	JavaSyntaxCode = rules.CheckstylePrefix + "java-syntax"
)

const msgJavaParse = "Problem parsing Java source"

// sourceValidator lints the discovered files of one namespace with the
// registered rules.
type sourceValidator struct {
	namespace string
}

// Checkstyle returns the validator running quill's Java source checks over
// every discovered *.java file.
func Checkstyle() Validator {
	return &sourceValidator{namespace: strings.TrimSuffix(rules.CheckstylePrefix, "/")}
}

// XML returns the validator checking that every discovered *.xml file is in
// canonical form.
func XML() Validator {
	return &sourceValidator{namespace: strings.TrimSuffix(rules.XMLPrefix, "/")}
}

func (s *sourceValidator) Name() string {
	return s.namespace
}

// Validate lints the validator's files, concurrently when [scan] jobs > 1.
// Per-file problems become violations; only cancellation is an error.
func (s *sourceValidator) Validate(ctx context.Context, env *Env) ([]rules.Violation, error) {
	var files []discovery.DiscoveredFile
	for _, f := range env.Files {
		if ns, ok := linter.Namespace(f.Path); ok && ns == s.namespace {
			files = append(files, f)
		}
	}
	env.logger().WithField("validator", s.namespace).WithField("files", len(files)).Debug("scanning")

	results := make([][]rules.Violation, len(files))
	jobs := env.config().Scan.Jobs
	if jobs < 1 {
		jobs = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.scanFile(gctx, env, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []rules.Violation
	for _, vs := range results {
		out = append(out, vs...)
	}
	return out, nil
}

func (s *sourceValidator) scanFile(ctx context.Context, env *Env, f discovery.DiscoveredFile) []rules.Violation {
	cfg := env.config()
	log := env.logger().WithField("file", f.Rel)

	if err := fileval.ValidateFile(f.Path, cfg.Scan.MaxFileSize); err != nil {
		log.WithError(err).Warn("skipping file")
		return []rules.Violation{fileViolation(f.Rel, err)}
	}

	content, err := os.ReadFile(f.Path)
	if err != nil {
		return []rules.Violation{fileViolation(f.Rel, err)}
	}
	env.remember(f.Rel, content)

	res, err := linter.LintFile(ctx, linter.Input{
		File:    f.Rel,
		Path:    f.Path,
		Content: content,
		Config:  cfg,
	})
	if err != nil {
		return []rules.Violation{fileViolation(f.Rel, err)}
	}
	if res.ParseError != nil {
		log.WithError(res.ParseError).Debug("java parse failed, running line checks only")
		return append([]rules.Violation{javaParseViolation(f.Rel, res.ParseError)}, res.Violations...)
	}
	return res.Violations
}

func fileViolation(rel string, err error) rules.Violation {
	return rules.NewViolation(
		rules.NewFileLocation(rel),
		FileCode,
		fmt.Sprintf("Problem reading file: %v", err),
		rules.SeverityError,
	)
}

func javaParseViolation(rel string, err *linter.ParseError) rules.Violation {
	loc := rules.NewFileLocation(rel)
	var syntaxErr *javasyntax.SyntaxError
	if errors.As(err, &syntaxErr) {
		loc = rules.NewLineLocation(rel, syntaxErr.Row+1)
	}
	return rules.NewViolation(loc, JavaSyntaxCode, fmt.Sprintf("%s: %v", msgJavaParse, err.Err), rules.SeverityError)
}
