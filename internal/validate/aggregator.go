package validate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/quill/internal/linter"
	"github.com/wharflab/quill/internal/processor"
	"github.com/wharflab/quill/internal/reporter"
	"github.com/wharflab/quill/internal/rules"
)

// State is the lifecycle of an Aggregator.
type State int

const (
	// StateIdle is an aggregator that has not run yet.
	StateIdle State = iota
	// StateRunning is an aggregator inside Run.
	StateRunning
	// StatePassed is a finished run with no violations and no failures.
	StatePassed
	// StateFailed is a finished run with violations or failed validators.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePassed:
		return "passed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Report holds the filtered violations of one validator.
type Report struct {
	Validator  string
	Violations []rules.Violation
	Duration   time.Duration
}

// Result is the outcome of one aggregator run.
type Result struct {
	// Reports are per-validator results in registration order. Findings about
	// the run itself (unused directives) are reported under "quill".
	Reports []Report

	// Errors are the validators that could not run.
	Errors []*ValidatorError
}

// Violations returns every violation of the run in stable order.
func (r *Result) Violations() []rules.Violation {
	var all []rules.Violation
	for _, rep := range r.Reports {
		all = append(all, rep.Violations...)
	}
	return reporter.SortViolations(all)
}

// Count returns the number of violations across all validators.
func (r *Result) Count() int {
	n := 0
	for _, rep := range r.Reports {
		n += len(rep.Violations)
	}
	return n
}

// Passed reports whether the run found nothing and every validator ran.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0 && r.Count() == 0
}

// Err returns nil for a passed run. Violations fail the run with a
// *ViolationsError; validators that could not run are joined after it, so
// the violation count stays visible when a hard failure occurs too.
func (r *Result) Err() error {
	var errs []error
	if count := r.Count(); count > 0 {
		errs = append(errs, &ViolationsError{Validator: r.failingName(), Count: count})
	}
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

// failingName names the validator whose reports hold violations, or "quill"
// when there are several.
func (r *Result) failingName() string {
	name := ""
	for _, rep := range r.Reports {
		if len(rep.Violations) == 0 {
			continue
		}
		if name != "" && name != rep.Validator {
			return "quill"
		}
		name = rep.Validator
	}
	return name
}

// Aggregator runs validators and combines their results.
type Aggregator struct {
	validators []Validator

	mu    sync.Mutex
	state State
}

// New creates an aggregator over validators, run in the given order.
func New(validators ...Validator) *Aggregator {
	return &Aggregator{validators: validators}
}

// Register appends a validator. It has no effect once Run has started.
func (a *Aggregator) Register(v Validator) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateIdle {
		a.validators = append(a.validators, v)
	}
}

// State returns the aggregator's lifecycle state.
func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Aggregator) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}

// Run executes every validator against env. Exclusions apply to each
// validator's violations before they enter the aggregate; a validator
// whose exclusion patterns do not compile fails without scanning.
func (a *Aggregator) Run(ctx context.Context, env *Env) *Result {
	a.setState(StateRunning)
	log := env.logger()
	cfg := env.config()
	inline := processor.NewInlineDirectiveFilter()
	chain := linter.CLIProcessors(inline)

	result := &Result{}
	for _, v := range a.validators {
		name := v.Name()
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, &ValidatorError{Validator: name, Err: fmt.Errorf("%w: %w", errCanceled, err)})
			continue
		}
		if err := env.Exclusions.Compile(name); err != nil {
			log.WithError(err).WithField("validator", name).Error("invalid exclusion pattern")
			result.Errors = append(result.Errors, &ValidatorError{Validator: name, Err: err})
			continue
		}

		start := time.Now()
		raw, err := v.Validate(ctx, env)
		if err != nil {
			log.WithError(err).WithField("validator", name).Error("validator failed")
			result.Errors = append(result.Errors, &ValidatorError{Validator: name, Err: err})
			continue
		}

		pctx := processor.NewContext(env.Exclusions, cfg, env.Sources())
		filtered := chain.Process(raw, pctx)
		elapsed := time.Since(start)
		log.WithField("validator", name).
			WithField("violations", len(filtered)).
			WithField("excluded", len(raw)-len(filtered)).
			WithField("duration", elapsed).
			Debug("validator finished")

		logViolations(log, filtered)
		result.Reports = append(result.Reports, Report{Validator: name, Violations: filtered, Duration: elapsed})
	}

	extra := inline.AdditionalViolations(processor.NewContext(env.Exclusions, cfg, env.Sources()))
	if len(extra) > 0 {
		extra = processor.NewChain(processor.NewSorting(), processor.NewSnippetAttachment()).
			Process(extra, processor.NewContext(nil, cfg, env.Sources()))
		logViolations(log, extra)
		result.Reports = append(result.Reports, Report{Validator: "quill", Violations: extra})
	}

	if result.Passed() {
		a.setState(StatePassed)
	} else {
		a.setState(StateFailed)
	}
	return result
}

func logViolations(log logrus.FieldLogger, violations []rules.Violation) {
	for _, v := range violations {
		log.Warn(v.String())
	}
}
