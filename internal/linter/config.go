package linter

import (
	"sort"

	"github.com/wharflab/quill/internal/config"
	"github.com/wharflab/quill/internal/rules"
)

// EnabledRuleCodes returns the set of registered rule codes that are active
// for the given config.
func EnabledRuleCodes(cfg *config.Config) []string {
	var enabled []string
	for _, rule := range rules.DefaultRegistry().All() {
		if isRuleEnabled(rule.Metadata().Code, rule.Metadata().DefaultSeverity, cfg) {
			enabled = append(enabled, rule.Metadata().Code)
		}
	}
	sort.Strings(enabled)
	return enabled
}

// isRuleEnabled checks if a rule is effectively enabled based on config.
func isRuleEnabled(ruleCode string, defaultSeverity rules.Severity, cfg *config.Config) bool {
	if cfg == nil {
		return defaultSeverity != rules.SeverityOff
	}

	// Check if explicitly disabled by exclude pattern.
	enabled := cfg.Rules.IsEnabled(ruleCode)
	if enabled != nil {
		return *enabled
	}

	// Respect explicit severity overrides (on/off).
	if sev := cfg.Rules.GetSeverity(ruleCode); sev != "" {
		return sev != "off"
	}

	// Check if "off" rule is auto-enabled by having config options.
	if defaultSeverity == rules.SeverityOff {
		ruleConfig := cfg.Rules.Get(ruleCode)
		return ruleConfig != nil && len(ruleConfig.Options) > 0
	}

	return true
}
