package directive

import "github.com/wharflab/quill/internal/rules"

// FilterResult contains the results of filtering violations through directives.
type FilterResult struct {
	// Violations that were not suppressed.
	Violations []rules.Violation

	// Suppressed violations that were filtered out.
	Suppressed []rules.Violation

	// UnusedDirectives that did not suppress any violations.
	UnusedDirectives []Directive
}

// Filter applies directives to filter violations.
// Violations are suppressed if a directive matches both:
//   - The violation's rule code (or "all")
//   - The violation's line number
//
// Violations use 1-based lines; directives use 0-based. File-level
// violations are only suppressed by global directives.
//
// Matching precedence: first match wins, and only that directive is marked
// as Used.
func Filter(violations []rules.Violation, directives []Directive) *FilterResult {
	result := &FilterResult{
		Violations: make([]rules.Violation, 0, len(violations)),
		Suppressed: make([]rules.Violation, 0),
	}

	directiveCopies := make([]Directive, len(directives))
	copy(directiveCopies, directives)

	for _, v := range violations {
		suppressed := false
		line0 := v.Line() - 1

		for i := range directiveCopies {
			d := &directiveCopies[i]
			if !covers(d, v, line0) || !d.SuppressesRule(v.RuleCode) {
				continue
			}
			suppressed = true
			d.Used = true
			break
		}

		if suppressed {
			result.Suppressed = append(result.Suppressed, v)
		} else {
			result.Violations = append(result.Violations, v)
		}
	}

	for _, d := range directiveCopies {
		if !d.Used {
			result.UnusedDirectives = append(result.UnusedDirectives, d)
		}
	}

	return result
}

func covers(d *Directive, v rules.Violation, line0 int) bool {
	if v.Location.IsFileLevel() {
		return d.Type == TypeGlobal
	}
	return d.SuppressesLine(line0)
}
