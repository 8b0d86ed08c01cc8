package processor

import (
	"github.com/wharflab/quill/internal/rules"
)

// EnableFilter removes violations for disabled rules.
// Filters out violations with severity="off".
// Also respects Include/Exclude patterns from config.
type EnableFilter struct{}

// NewEnableFilter creates a new enable filter processor.
func NewEnableFilter() *EnableFilter {
	return &EnableFilter{}
}

// Name returns the processor's identifier.
func (p *EnableFilter) Name() string {
	return "enable-filter"
}

// Process filters out violations for disabled rules.
// Rules are disabled if:
//  1. Severity is "off" (after SeverityOverride has run)
//  2. Excluded by Include/Exclude patterns
func (p *EnableFilter) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	return filterViolations(violations, func(v rules.Violation) bool {
		// SeverityOverride runs before this processor
		if v.Severity == rules.SeverityOff {
			return false
		}

		if enabled := ctx.Config.Rules.IsEnabled(v.RuleCode); enabled != nil {
			return *enabled
		}

		return true
	})
}
