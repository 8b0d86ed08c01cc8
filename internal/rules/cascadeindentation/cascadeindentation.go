// Package cascadeindentation implements the cascade-indentation check: each
// new nesting level adds exactly one indentation step. Only increases are
// checked, so closing a block never fails.
package cascadeindentation

import (
	"fmt"
	"strconv"

	"github.com/editorconfig/editorconfig-core-go/v2"

	"github.com/wharflab/quill/internal/rules"
	"github.com/wharflab/quill/internal/rules/configutil"
)

// Code is the rule identifier.
const Code = rules.CheckstylePrefix + "cascade-indentation"

// DefaultStep is the indentation step used when nothing else is configured.
const DefaultStep = 4

// Config is the configuration for the cascade-indentation rule.
type Config struct {
	// Step is the number of spaces one nesting level adds.
	Step int `koanf:"step"`

	// UseEditorconfig takes the step from the indent_size of the closest
	// .editorconfig section matching the file, when one is set.
	UseEditorconfig bool `koanf:"use-editorconfig"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Step: DefaultStep}
}

// Rule implements the cascade-indentation check.
type Rule struct{}

// New creates a new cascade-indentation rule instance.
func New() *Rule {
	return &Rule{}
}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             Code,
		Name:             "Cascade Indentation",
		Description:      "Each new nesting level must be indented by exactly one step",
		DocURL:           "https://github.com/wharflab/quill/blob/main/docs/rules/checkstyle/cascade-indentation.md",
		DefaultSeverity:  rules.SeverityError,
		Category:         "style",
		EnabledByDefault: true,
	}
}

// Check tracks the indentation of consecutive non-blank lines.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	step := r.step(input)
	meta := r.Metadata()
	sm := input.SourceMap()

	var violations []rules.Violation
	previous := 0
	for row, line := range sm.Lines() {
		if sm.IsBlank(row) {
			continue
		}
		current := Indentation(line)
		if current-previous > 0 && current-previous != step {
			violations = append(violations, input.NewLineViolation(
				row,
				meta.Code,
				fmt.Sprintf("Should be indented by %d spaces (%d instead)", previous+step, current),
				meta.DefaultSeverity,
			).WithDocURL(meta.DocURL))
			continue
		}
		previous = current
	}
	return violations
}

// Indentation counts the leading spaces of a line. A javadoc continuation
// line ("   * text") sits one column right of the code it documents, so a
// leading '*' counts one space less.
func Indentation(line string) int {
	indent := 0
	for i := range len(line) {
		switch line[i] {
		case ' ':
			indent++
		case '*':
			return max(indent-1, 0)
		default:
			return indent
		}
	}
	return indent
}

// LinesOnly reports that the check reads source lines only.
func (r *Rule) LinesOnly() bool {
	return true
}

func (r *Rule) step(input rules.LintInput) int {
	cfg := configutil.Coerce(input.Config, DefaultConfig())
	if cfg.UseEditorconfig && input.Path != "" {
		if size := editorconfigIndent(input.Path); size > 0 {
			return size
		}
	}
	if cfg.Step <= 0 {
		return DefaultStep
	}
	return cfg.Step
}

// editorconfigIndent returns indent_size for path, or 0 when unset.
func editorconfigIndent(path string) int {
	def, err := editorconfig.GetDefinitionForFilename(path)
	if err != nil || def == nil {
		return 0
	}
	size, err := strconv.Atoi(def.IndentSize)
	if err != nil {
		return 0
	}
	return size
}

// DefaultConfig returns the default configuration for this rule.
func (r *Rule) DefaultConfig() any {
	return DefaultConfig()
}

// ValidateConfig checks if the configuration is valid.
func (r *Rule) ValidateConfig(config any) error {
	cfg, err := configutil.CoerceStrict[Config](config)
	if err != nil {
		return err
	}
	if cfg.Step < 0 {
		return fmt.Errorf("step must be >= 0, got %d", cfg.Step)
	}
	return nil
}

func init() {
	rules.Register(New())
}
