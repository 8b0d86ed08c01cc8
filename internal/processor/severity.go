package processor

import (
	"github.com/wharflab/quill/internal/rules"
)

// SeverityOverride applies severity overrides from configuration.
// Allows users to downgrade warnings to info, upgrade info to errors, etc.
// Also auto-enables rules with DefaultSeverity="off" when options are provided.
type SeverityOverride struct {
	registry *rules.Registry
}

// NewSeverityOverride creates a new severity override processor.
func NewSeverityOverride() *SeverityOverride {
	return NewSeverityOverrideWithRegistry(rules.DefaultRegistry())
}

// NewSeverityOverrideWithRegistry creates a severity override processor with a custom registry.
func NewSeverityOverrideWithRegistry(registry *rules.Registry) *SeverityOverride {
	if registry == nil {
		registry = rules.DefaultRegistry()
	}
	return &SeverityOverride{
		registry: registry,
	}
}

// Name returns the processor's identifier.
func (p *SeverityOverride) Name() string {
	return "severity-override"
}

// Process applies severity overrides from config.
func (p *SeverityOverride) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	return transformViolations(violations, func(v rules.Violation) rules.Violation {
		if override := ctx.Config.Rules.GetSeverity(v.RuleCode); override != "" {
			sev, err := rules.ParseSeverity(override)
			if err != nil {
				// Config validation rejects these; keep original
				return v
			}
			v.Severity = sev
			return v
		}

		// Options on an off-by-default rule enable it as a warning.
		ruleConfig := ctx.Config.Rules.Get(v.RuleCode)
		if ruleConfig != nil && len(ruleConfig.Options) > 0 {
			rule := p.registry.Get(v.RuleCode)
			if rule != nil && rule.Metadata().DefaultSeverity == rules.SeverityOff {
				v.Severity = rules.SeverityWarning
			}
		}

		return v
	})
}
