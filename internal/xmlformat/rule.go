package xmlformat

import (
	"fmt"
	"strings"

	"github.com/wharflab/quill/internal/rules"
)

// Code is the rule identifier.
const Code = rules.XMLPrefix + "canonical-format"

const (
	msgNotCanonical = "XML is not formatted canonically"
	msgParse        = "Problem parsing XML"
)

// Rule implements the xml/canonical-format check.
type Rule struct{}

// New creates a new canonical-format rule instance.
func New() *Rule {
	return &Rule{}
}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             Code,
		Name:             "Canonical XML Format",
		Description:      "XML files must match their canonical two-space indented rendering",
		DocURL:           "https://github.com/wharflab/quill/blob/main/docs/rules/xml/canonical-format.md",
		DefaultSeverity:  rules.SeverityError,
		Category:         "style",
		EnabledByDefault: true,
	}
}

// Check reports at most one violation per file.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	if v, ok := Check(input.File, input.Source); ok {
		return []rules.Violation{v.WithDocURL(r.Metadata().DocURL)}
	}
	return nil
}

// Check compares src with its canonical form. An unparseable file yields a
// file-level violation; a file with remaining deltas yields one violation at
// the first delta, with the canonical form and the diff as detail.
func Check(file string, src []byte) (rules.Violation, bool) {
	canonical, err := Canonicalize(src)
	if err != nil {
		return rules.NewViolation(
			rules.NewFileLocation(file),
			Code,
			fmt.Sprintf("%s: %v", msgParse, err),
			rules.SeverityError,
		), true
	}

	original := string(src)
	deltas := FilterDeltas(Deltas(original, canonical))
	if len(deltas) == 0 {
		return rules.Violation{}, false
	}

	line := min(deltas[0].Line(), lineCount(original))
	v := rules.NewViolation(
		rules.NewLineLocation(file, line),
		Code,
		msgNotCanonical,
		rules.SeverityError,
	)
	var detail strings.Builder
	detail.WriteString("Canonical form:\n")
	detail.WriteString(canonical)
	if diff, err := RenderDiff(original, canonical); err == nil && diff != "" {
		detail.WriteString("\nDiff:\n")
		detail.WriteString(diff)
	}
	return v.WithDetail(detail.String()), true
}

func init() {
	rules.Register(New())
}
