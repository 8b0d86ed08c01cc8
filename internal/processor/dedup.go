package processor

import (
	"fmt"
	"path/filepath"

	"github.com/wharflab/quill/internal/rules"
)

// Deduplication removes duplicate violations.
// Two violations are duplicates if they share file, line, rule code and message.
// Engine reports merged from several modules often repeat the same finding.
type Deduplication struct{}

// NewDeduplication creates a new deduplication processor.
func NewDeduplication() *Deduplication {
	return &Deduplication{}
}

// Name returns the processor's identifier.
func (p *Deduplication) Name() string {
	return "deduplication"
}

// Process removes duplicate violations, keeping the first occurrence.
func (p *Deduplication) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	seen := make(map[string]bool)
	return filterViolations(violations, func(v rules.Violation) bool {
		key := fmt.Sprintf("%s:%d:%s:%s",
			filepath.ToSlash(v.Location.File), v.Location.Start.Line, v.RuleCode, v.Message)
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}
