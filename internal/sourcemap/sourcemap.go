// Package sourcemap provides the per-file scan context shared by the source
// checks: a line index over the raw content, snippet extraction, comment
// extraction for inline directives, and bounded line searches.
package sourcemap

import (
	"bytes"
	"strings"
)

// SourceMap provides efficient access to source code by line.
// It precomputes line boundaries for fast snippet extraction.
//
// All line numbers are 0-based rows. Violations convert to 1-based lines.
type SourceMap struct {
	// source is the raw source content.
	source []byte

	// lines are the individual lines (without line endings).
	lines []string

	// lineOffsets[i] is the byte offset where line i starts in source.
	lineOffsets []int
}

// New creates a SourceMap from source content.
// Lines are split on \n (handles both \n and \r\n).
func New(source []byte) *SourceMap {
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	lineOffsets := make([]int, len(rawLines))

	offset := 0
	for i, line := range rawLines {
		lineOffsets[i] = offset
		lines[i] = strings.TrimSuffix(string(line), "\r")
		offset += len(line) + 1
	}

	return &SourceMap{
		source:      source,
		lines:       lines,
		lineOffsets: lineOffsets,
	}
}

// Lines returns all lines (without line endings).
// The returned slice should not be modified.
func (sm *SourceMap) Lines() []string {
	return sm.lines
}

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// Line returns the text of a specific line (0-based).
// Returns empty string if line is out of range.
func (sm *SourceMap) Line(line int) string {
	if line < 0 || line >= len(sm.lines) {
		return ""
	}
	return sm.lines[line]
}

// Trimmed returns the line with surrounding whitespace removed.
func (sm *SourceMap) Trimmed(line int) string {
	return strings.TrimSpace(sm.Line(line))
}

// IsBlank reports whether the line is empty or whitespace only.
// Rows outside the file are not blank.
func (sm *SourceMap) IsBlank(line int) bool {
	if line < 0 || line >= len(sm.lines) {
		return false
	}
	return strings.TrimSpace(sm.lines[line]) == ""
}

// LineOffset returns the byte offset where a line starts (0-based).
// Returns -1 if line is out of range.
func (sm *SourceMap) LineOffset(line int) int {
	if line < 0 || line >= len(sm.lineOffsets) {
		return -1
	}
	return sm.lineOffsets[line]
}

// Snippet extracts a range of lines as a single string.
// Both startLine and endLine are 0-based and inclusive.
// Returns empty string if range is invalid.
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sm.lines) {
		endLine = len(sm.lines) - 1
	}
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}

	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}

// SnippetAround extracts context lines around a target line.
func (sm *SourceMap) SnippetAround(line, before, after int) string {
	return sm.Snippet(line-before, line+after)
}

// Source returns the raw source content.
// The returned slice should not be modified.
func (sm *SourceMap) Source() []byte {
	return sm.source
}

// Comment is the comment text found on one line.
type Comment struct {
	// Line is the 0-based line number where the comment appears.
	Line int

	// Text is the comment body with its leading marker ("//", "/*", "/**",
	// "*" or "<!--") and any closing marker removed, then trimmed.
	Text string
}

// Comments extracts comment text line by line: whole-line Java comments,
// javadoc continuation lines, trailing "//" comments after code, and XML
// comments. Comments are returned in line order.
func (sm *SourceMap) Comments() []Comment {
	var comments []Comment
	for i, line := range sm.lines {
		if text, ok := commentText(line); ok {
			comments = append(comments, Comment{Line: i, Text: text})
		}
	}
	return comments
}

func commentText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, marker := range []string{"//", "/**", "/*", "<!--", "*/", "*"} {
		if rest, ok := strings.CutPrefix(trimmed, marker); ok {
			return stripClosing(rest), true
		}
	}
	masked := MaskLiterals(line)
	if idx := strings.Index(masked, "//"); idx >= 0 {
		return strings.TrimSpace(line[idx+2:]), true
	}
	return "", false
}

func stripClosing(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "*/")
	s = strings.TrimSuffix(s, "-->")
	return strings.TrimSpace(s)
}
