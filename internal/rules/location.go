package rules

import "strconv"

// Position represents a single point in a source file.
type Position struct {
	// Line is the 1-based line number (first line is 1).
	Line int `json:"line"`
	// Column is the 0-based column number.
	Column int `json:"column"`
}

// Location represents a range in a source file.
//
// Start and End are both inclusive: a range covers whole lines
// Start.Line..End.Line, which is how Java checks and analysis engines report
// them. A point location has End.Line < 0 (unset) or End equals Start.
type Location struct {
	// File is the path to the source file, relative to the project root.
	File string `json:"file"`
	// Start is the starting position (inclusive, 1-based line numbers).
	Start Position `json:"start"`
	// End is the ending position.
	End Position `json:"end"`
}

// NewFileLocation creates a location for file-level issues (no specific line).
// Uses -1 as sentinel since 0 would be invalid (lines are 1-based).
func NewFileLocation(file string) Location {
	return Location{
		File:  file,
		Start: Position{Line: -1, Column: -1},
		End:   Position{Line: -1, Column: -1},
	}
}

// NewLineLocation creates a point location at the start of a line (1-based).
func NewLineLocation(file string, line int) Location {
	return Location{
		File:  file,
		Start: Position{Line: line, Column: 0},
		End:   Position{Line: -1, Column: -1},
	}
}

// NewLineRangeLocation creates a location covering whole lines start..end (1-based, inclusive).
// Engines report ranges this way; a range collapsing to one line becomes a point location.
func NewLineRangeLocation(file string, start, end int) Location {
	if end <= start {
		return NewLineLocation(file, start)
	}
	return Location{
		File:  file,
		Start: Position{Line: start, Column: 0},
		End:   Position{Line: end, Column: 0},
	}
}

// NewRangeLocation creates a location spanning multiple lines/columns.
// Lines are 1-based, columns are 0-based.
func NewRangeLocation(file string, startLine, startCol, endLine, endCol int) Location {
	return Location{
		File:  file,
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// IsFileLevel returns true if this is a file-level location (no specific line).
func (l Location) IsFileLevel() bool {
	return l.Start.Line < 0
}

// IsPointLocation returns true if this is a single-point location (no range).
func (l Location) IsPointLocation() bool {
	return l.End.Line < 0 || (l.End.Line == l.Start.Line && l.End.Column == l.Start.Column)
}

// Lines renders the line part of the location: "12", "12-15" or "unknown".
func (l Location) Lines() string {
	switch {
	case l.IsFileLevel():
		return "unknown"
	case l.End.Line <= l.Start.Line:
		return strconv.Itoa(l.Start.Line)
	default:
		return strconv.Itoa(l.Start.Line) + "-" + strconv.Itoa(l.End.Line)
	}
}
