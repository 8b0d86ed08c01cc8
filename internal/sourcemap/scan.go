package sourcemap

import "strings"

// Match is the outcome of a bounded line search: either Found(row) or NotFound.
type Match struct {
	row   int
	found bool
}

// NotFound is the Match of a search that reached its bound.
var NotFound = Match{row: -1}

// Found returns a Match for the given 0-based row.
func Found(row int) Match {
	return Match{row: row, found: true}
}

// Row returns the matched row and whether the search succeeded.
func (m Match) Row() (int, bool) {
	return m.row, m.found
}

// OK reports whether the search succeeded.
func (m Match) OK() bool {
	return m.found
}

// FindUp scans rows from-1, from-2, ... down to floor+1 and returns the first
// row whose line satisfies pred. Rows at or below floor are never examined,
// so floor = -1 searches to the top of the file.
func (sm *SourceMap) FindUp(from, floor int, pred func(line string) bool) Match {
	if from > len(sm.lines) {
		from = len(sm.lines)
	}
	for row := from - 1; row > floor && row >= 0; row-- {
		if pred(sm.lines[row]) {
			return Found(row)
		}
	}
	return NotFound
}

// FindDown scans rows from+1, from+2, ... up to ceil-1.
// ceil = LineCount() searches to the end of the file.
func (sm *SourceMap) FindDown(from, ceil int, pred func(line string) bool) Match {
	if ceil > len(sm.lines) {
		ceil = len(sm.lines)
	}
	for row := max(from+1, 0); row < ceil; row++ {
		if pred(sm.lines[row]) {
			return Found(row)
		}
	}
	return NotFound
}

// FindTrimmedUp finds the nearest row above from, and strictly above floor,
// whose trimmed text equals text.
func (sm *SourceMap) FindTrimmedUp(from, floor int, text string) Match {
	return sm.FindUp(from, floor, TrimmedEquals(text))
}

// FindTrimmedDown finds the nearest row below from, and strictly below ceil,
// whose trimmed text equals text.
func (sm *SourceMap) FindTrimmedDown(from, ceil int, text string) Match {
	return sm.FindDown(from, ceil, TrimmedEquals(text))
}

// TrimmedEquals returns a line predicate comparing the trimmed line with text.
func TrimmedEquals(text string) func(string) bool {
	return func(line string) bool {
		return strings.TrimSpace(line) == text
	}
}

// MaskLiterals replaces the contents of string and character literals with
// spaces, keeping the quotes and the line length. Columns found in the
// masked line are valid in the original.
func MaskLiterals(line string) string {
	out := []byte(line)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case quote == 0 && (c == '"' || c == '\''):
			quote = c
		case quote != 0 && c == '\\':
			out[i] = ' '
			if i+1 < len(out) {
				i++
				out[i] = ' '
			}
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
			out[i] = ' '
		}
	}
	return string(out)
}

// StripLineComment masks literals and drops a trailing "//" comment.
func StripLineComment(line string) string {
	masked := MaskLiterals(line)
	if idx := strings.Index(masked, "//"); idx >= 0 {
		return masked[:idx]
	}
	return masked
}
