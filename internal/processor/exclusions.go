package processor

import (
	"github.com/wharflab/quill/internal/exclude"
	"github.com/wharflab/quill/internal/rules"
)

// ExclusionFilter drops excluded violations. Two sources feed it: the
// project's checker:pattern exclusions, where the checker is the violation's
// validator namespace so "checkstyle:..." never touches xml or pmd findings,
// and the per-rule "exclude.paths" globs of the configuration.
type ExclusionFilter struct{}

// NewExclusionFilter creates a new exclusion filter processor.
func NewExclusionFilter() *ExclusionFilter {
	return &ExclusionFilter{}
}

// Name returns the processor's identifier.
func (p *ExclusionFilter) Name() string {
	return "exclusion-filter"
}

// Process filters out excluded violations.
func (p *ExclusionFilter) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	return filterViolations(violations, func(v rules.Violation) bool {
		if ctx.Config != nil && exclude.MatchGlobs(ctx.Config.Rules.GetExcludePaths(v.RuleCode), v.Location.File) {
			return false
		}
		return !ctx.Exclusions.Excluded(v.Validator(), itemFor(v))
	})
}

func itemFor(v rules.Violation) exclude.Item {
	item := exclude.Item{Path: v.Location.File, Code: v.Check()}
	if v.Subject != nil {
		item.Class = v.Subject.Class
		item.Method = v.Subject.Method
	}
	return item
}
