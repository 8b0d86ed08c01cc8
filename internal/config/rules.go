package config

import (
	"maps"
	"strings"

	"github.com/wharflab/quill/internal/rules/configutil"
)

// RuleConfig represents per-rule configuration.
// Can be specified in TOML as:
//
//	[rules.checkstyle.cascade-indentation]
//	severity = "warning"
//	exclude.paths = ["src/test/**"]
//	# Rule-specific options are flattened at this level
//	step = 2
type RuleConfig struct {
	// Severity overrides the rule's default severity.
	// Use "off" to disable the rule.
	Severity string `json:"severity,omitempty" koanf:"severity" toml:"severity,omitempty"`

	// Exclude contains path patterns where this rule should not run.
	Exclude ExcludeConfig `json:"exclude" koanf:"exclude" toml:"exclude,omitempty"`

	// Options contains rule-specific configuration options.
	Options map[string]any `json:"-" koanf:",remain" toml:"-"`
}

// ExcludeConfig defines file exclusion patterns for a rule.
type ExcludeConfig struct {
	// Paths contains glob patterns for files to exclude.
	Paths []string `json:"paths,omitempty" koanf:"paths" toml:"paths,omitempty"`
}

// RulesConfig contains rule selection and per-rule configuration.
//
// Example TOML:
//
//	[rules]
//	include = ["checkstyle/*"]
//	exclude = ["checkstyle/puzzle-format"]
//
//	[rules.checkstyle.cascade-indentation]
//	severity = "warning"
//	step = 2
//
//	[rules.xml.canonical-format]
//	exclude.paths = ["**/target/**"]
type RulesConfig struct {
	// Include explicitly enables rules.
	Include []string `json:"include,omitempty" koanf:"include" toml:"include,omitempty"`

	// Exclude explicitly disables rules.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude" toml:"exclude,omitempty"`

	// Checkstyle contains configuration for checkstyle/* rules.
	Checkstyle map[string]RuleConfig `json:"checkstyle,omitempty" koanf:"checkstyle" toml:"checkstyle,omitempty"`

	// XML contains configuration for xml/* rules.
	XML map[string]RuleConfig `json:"xml,omitempty" koanf:"xml" toml:"xml,omitempty"`

	// PMD contains configuration for imported pmd/* findings.
	PMD map[string]RuleConfig `json:"pmd,omitempty" koanf:"pmd" toml:"pmd,omitempty"`

	// Findbugs contains configuration for imported findbugs/* findings.
	Findbugs map[string]RuleConfig `json:"findbugs,omitempty" koanf:"findbugs" toml:"findbugs,omitempty"`
}

// Namespaces lists the rule namespaces a RulesConfig can hold.
var Namespaces = []string{"checkstyle", "xml", "pmd", "findbugs"}

// Get returns the configuration for a specific rule.
// Returns nil if no configuration exists for the rule.
// ruleCode should be namespaced (e.g., "checkstyle/puzzle-format").
func (rc *RulesConfig) Get(ruleCode string) *RuleConfig {
	if rc == nil {
		return nil
	}
	ns, name := parseRuleCode(ruleCode)
	nsMap := rc.namespaceMap(ns)
	if nsMap == nil {
		return nil
	}
	if cfg, ok := nsMap[name]; ok {
		return &cfg
	}
	return nil
}

// parseRuleCode parses a rule code into namespace and name.
// "checkstyle/puzzle-format" -> ("checkstyle", "puzzle-format")
// "puzzle-format" -> ("", "puzzle-format")
func parseRuleCode(ruleCode string) (string, string) {
	if idx := strings.Index(ruleCode, "/"); idx > 0 {
		return ruleCode[:idx], ruleCode[idx+1:]
	}
	return "", ruleCode
}

// IsEnabled checks if a rule is enabled based on Include/Exclude patterns.
// Returns nil if no configuration specifies enabled/disabled (use rule default).
// Include takes precedence over Exclude.
func (rc *RulesConfig) IsEnabled(ruleCode string) *bool {
	if rc == nil {
		return nil
	}

	if matchesAnyPattern(ruleCode, rc.Include) {
		return boolPtr(true)
	}

	if matchesAnyPattern(ruleCode, rc.Exclude) {
		return boolPtr(false)
	}

	return nil
}

// matchesAnyPattern checks if ruleCode matches any pattern in the list.
// Patterns can be:
// - Exact match: "checkstyle/puzzle-format"
// - Namespace wildcard: "checkstyle/*"
func matchesAnyPattern(ruleCode string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchesPattern(ruleCode, pattern) {
			return true
		}
	}
	return false
}

// matchesPattern checks if ruleCode matches a single pattern.
func matchesPattern(ruleCode, pattern string) bool {
	if pattern == "*" {
		return true
	}

	if ruleCode == pattern {
		return true
	}

	// Namespace wildcard: "checkstyle/*" matches "checkstyle/puzzle-format"
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		ns, _ := parseRuleCode(ruleCode)
		return ns == prefix
	}

	return false
}

// GetSeverity returns the severity override for a rule.
// Returns empty string if no override is configured.
func (rc *RulesConfig) GetSeverity(ruleCode string) string {
	if cfg := rc.Get(ruleCode); cfg != nil {
		return cfg.Severity
	}
	return ""
}

// GetExcludePaths returns the exclusion patterns for a rule.
func (rc *RulesConfig) GetExcludePaths(ruleCode string) []string {
	if cfg := rc.Get(ruleCode); cfg != nil && cfg.Exclude.Paths != nil {
		out := make([]string, len(cfg.Exclude.Paths))
		copy(out, cfg.Exclude.Paths)
		return out
	}
	return nil
}

// GetOptions returns rule-specific options.
// Returns nil if no options are configured.
// Returns a shallow copy to prevent mutation of internal state.
func (rc *RulesConfig) GetOptions(ruleCode string) map[string]any {
	if cfg := rc.Get(ruleCode); cfg != nil && cfg.Options != nil {
		out := make(map[string]any, len(cfg.Options))
		maps.Copy(out, cfg.Options)
		return out
	}
	return nil
}

// DecodeRuleOptions returns typed rule options merged over defaults.
// Returns defaults if the rule has no options or decoding fails.
func DecodeRuleOptions[T any](rc *RulesConfig, ruleCode string, defaults T) T {
	if rc == nil {
		return defaults
	}
	return configutil.Resolve(rc.GetOptions(ruleCode), defaults)
}

// Set stores configuration for a rule.
// Creates the namespace map if nil.
// Returns false if the namespace is unknown.
func (rc *RulesConfig) Set(ruleCode string, cfg RuleConfig) bool {
	ns, name := parseRuleCode(ruleCode)
	m := rc.namespaceMapPtr(ns)
	if m == nil {
		return false
	}
	if *m == nil {
		*m = make(map[string]RuleConfig)
	}
	(*m)[name] = cfg
	return true
}

// namespaceMap returns the map for a given namespace.
func (rc *RulesConfig) namespaceMap(ns string) map[string]RuleConfig {
	if m := rc.namespaceMapPtr(ns); m != nil {
		return *m
	}
	return nil
}

func (rc *RulesConfig) namespaceMapPtr(ns string) *map[string]RuleConfig {
	switch ns {
	case "checkstyle":
		return &rc.Checkstyle
	case "xml":
		return &rc.XML
	case "pmd":
		return &rc.PMD
	case "findbugs":
		return &rc.Findbugs
	default:
		return nil
	}
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}
