package validate

import (
	"context"
	"path/filepath"

	"github.com/wharflab/quill/internal/engine"
	"github.com/wharflab/quill/internal/rules"
)

// engineValidator imports the reports of one external analysis engine.
type engineValidator struct {
	name    string
	reports []string
}

// Engine returns a validator that imports the given report files, written
// by an engine such as PMD or SpotBugs, as violations of the named checker.
// Relative report paths are resolved against the project root. A missing or
// malformed report fails the validator.
func Engine(name string, reports ...string) Validator {
	return &engineValidator{name: name, reports: reports}
}

func (e *engineValidator) Name() string {
	return e.name
}

func (e *engineValidator) Validate(ctx context.Context, env *Env) ([]rules.Violation, error) {
	rels := env.rels()
	var out []rules.Violation
	for _, report := range e.reports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := report
		if !filepath.IsAbs(path) {
			path = filepath.Join(env.Root, path)
		}
		vs, err := engine.ReadReport(e.name, path)
		if err != nil {
			return nil, err
		}
		env.logger().WithField("validator", e.name).WithField("report", report).
			WithField("violations", len(vs)).Debug("report imported")
		for _, v := range vs {
			v.Location.File = engine.Relativize(env.Root, rels, v.Location.File)
			out = append(out, v)
		}
	}
	return out, nil
}
