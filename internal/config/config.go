// Package config provides configuration loading and discovery for quill.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (QUILL_* prefix)
//  3. Config file (closest .quill.toml or quill.toml)
//  4. Built-in defaults
//
// Config file discovery walks up the filesystem from the target path until a
// config file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".quill.toml", "quill.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "QUILL_"

// Config represents the complete quill configuration.
type Config struct {
	// Rules contains configuration for individual checks.
	Rules RulesConfig `json:"rules" koanf:"rules" toml:"rules"`

	// Output configures output format and destination.
	Output OutputConfig `json:"output" koanf:"output" toml:"output"`

	// InlineDirectives controls inline suppression comments.
	InlineDirectives InlineDirectivesConfig `json:"inline-directives" koanf:"inline-directives" toml:"inline-directives"`

	// Exclusions holds the project's "checker:pattern" exclusion rules.
	Exclusions ExclusionsConfig `json:"exclusions" koanf:"exclusions" toml:"exclusions"`

	// Engines points at reports written by third-party analysis engines.
	Engines EnginesConfig `json:"engines" koanf:"engines" toml:"engines"`

	// Scan configures file discovery and scanning.
	Scan ScanConfig `json:"scan" koanf:"scan" toml:"scan"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-" toml:"-"`

	// raw is the merged key tree the config was decoded from.
	raw map[string]any
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format: text, json, sarif, github-actions, markdown.
	Format string `json:"format,omitempty" koanf:"format" toml:"format"`

	// Path specifies where to write output: stdout, stderr or a file path.
	Path string `json:"path,omitempty" koanf:"path" toml:"path"`

	// ShowSource enables source code snippets in text output.
	ShowSource bool `json:"show-source,omitempty" koanf:"show-source" toml:"show-source"`

	// FailLevel sets the minimum severity level that causes a non-zero exit code.
	FailLevel string `json:"fail-level,omitempty" koanf:"fail-level" toml:"fail-level"`

	// Color selects terminal colors: auto, always, never.
	Color string `json:"color,omitempty" koanf:"color" toml:"color"`
}

// InlineDirectivesConfig controls inline suppression comments.
//
// Example TOML configuration:
//
//	[inline-directives]
//	enabled = true
//	warn-unused = false
type InlineDirectivesConfig struct {
	// Enabled controls whether inline directives are processed.
	Enabled bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled"`

	// WarnUnused logs directives that don't suppress any violations.
	WarnUnused bool `json:"warn-unused,omitempty" koanf:"warn-unused" toml:"warn-unused"`

	// ValidateRules logs unknown rule codes in quill directives.
	ValidateRules bool `json:"validate-rules,omitempty" koanf:"validate-rules" toml:"validate-rules"`
}

// ExclusionsConfig lists exclusion rules.
//
// Example TOML configuration:
//
//	[exclusions]
//	patterns = ["checkstyle:/src/main/java/com/example/Generated.java", "xml:**/target/**"]
type ExclusionsConfig struct {
	// Patterns are "checker:pattern" strings; each may hold comma-separated rules.
	Patterns []string `json:"patterns,omitempty" koanf:"patterns" toml:"patterns"`
}

// EnginesConfig lists third-party engine reports to import.
//
// Example TOML configuration:
//
//	[engines]
//	checkstyle = ["target/checkstyle-result.xml"]
//	pmd = ["target/pmd.xml"]
//	findbugs = ["target/spotbugsXml.xml"]
type EnginesConfig struct {
	// Checkstyle lists Checkstyle XML reports.
	Checkstyle []string `json:"checkstyle,omitempty" koanf:"checkstyle" toml:"checkstyle"`

	// PMD lists PMD reports in the Checkstyle XML format.
	PMD []string `json:"pmd,omitempty" koanf:"pmd" toml:"pmd"`

	// Findbugs lists SpotBugs/FindBugs XML reports.
	Findbugs []string `json:"findbugs,omitempty" koanf:"findbugs" toml:"findbugs"`
}

// ScanConfig configures file discovery and scanning.
//
// Example TOML configuration:
//
//	[scan]
//	jobs = 4
//	max-file-size = 1048576
//	skip = ["**/generated/**"]
type ScanConfig struct {
	// Jobs is the number of files scanned concurrently (0 or 1 = sequential).
	Jobs int `json:"jobs,omitempty" koanf:"jobs" toml:"jobs"`

	// MaxFileSize is the maximum file size in bytes (0 = unlimited).
	MaxFileSize int64 `json:"max-file-size,omitempty" koanf:"max-file-size" toml:"max-file-size"`

	// Skip lists glob patterns of files never discovered.
	Skip []string `json:"skip,omitempty" koanf:"skip" toml:"skip"`

	// Validators limits the run to the named validators (empty = all).
	Validators []string `json:"validators,omitempty" koanf:"validators" toml:"validators"`
}

// Default returns the default configuration.
// Rule-specific defaults are owned by each rule via ConfigurableRule.DefaultConfig().
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:     "text",
			Path:       "stdout",
			ShowSource: true,
			FailLevel:  "style", // Any violation causes exit code 1
			Color:      "auto",
		},
		Rules: RulesConfig{}, // Empty - defaults come from rules
		InlineDirectives: InlineDirectivesConfig{
			Enabled:       true,
			WarnUnused:    false,
			ValidateRules: false,
		},
		Scan: ScanConfig{
			Jobs:        1,
			MaxFileSize: 1024 * 1024, // 1 MiB
		},
	}
}

// Load loads configuration for a target file path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath), nil)
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath, nil)
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated equivalents.
// Add new entries here when adding rules or options with hyphenated names.
var knownHyphenatedKeys = map[string]string{
	"inline.directives":      "inline-directives",
	"warn.unused":            "warn-unused",
	"validate.rules":         "validate-rules",
	"show.source":            "show-source",
	"fail.level":             "fail-level",
	"max.file.size":          "max-file-size",
	"brackets.structure":     "brackets-structure",
	"cascade.indentation":    "cascade-indentation",
	"use.editorconfig":       "use-editorconfig",
	"javadoc.location":       "javadoc-location",
	"puzzle.format":          "puzzle-format",
	"multiline.javadoc.tags": "multiline-javadoc-tags",
	"canonical.format":       "canonical-format",
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"rules":             {},
	"output":            {},
	"inline-directives": {},
	"exclusions":        {},
	"engines":           {},
	"scan":              {},
}

// listKeys hold string lists; their environment values are comma-separated.
var listKeys = map[string]struct{}{
	"rules.include":       {},
	"rules.exclude":       {},
	"exclusions.patterns": {},
	"engines.checkstyle":  {},
	"engines.pmd":         {},
	"engines.findbugs":    {},
	"scan.skip":           {},
	"scan.validators":     {},
}

// envKeyTransform converts environment variable names to config keys.
// QUILL_OUTPUT_FORMAT -> output.format
// QUILL_RULES_CHECKSTYLE_CASCADE_INDENTATION_STEP -> rules.checkstyle.cascade-indentation.step
func envKeyTransform(k, v string) (string, any) {
	s := strings.TrimPrefix(k, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}

	if _, ok := listKeys[s]; ok {
		return s, splitList(v)
	}
	return s, v
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Discover finds the closest config file for a target file path.
// It walks up the directory tree from the target's directory,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	// A directory target is searched from itself.
	dir := filepath.Dir(absPath)
	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		dir = absPath
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
