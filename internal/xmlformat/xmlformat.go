// Package xmlformat checks that XML files are written in canonical form: the
// layout produced by parsing the document and writing it back with two-space
// indentation. Differences are computed line by line so the report points at
// the first offending line and carries a unified diff.
package xmlformat

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/pmezard/go-difflib/difflib"
)

// IndentSpaces is the indentation of one nesting level in canonical form.
const IndentSpaces = 2

// DiffContext is the number of unchanged lines shown around each diff hunk.
const DiffContext = 5

// AcceptedDeltaPattern matches original lines whose one-line rewrite is
// tolerated: text content that the canonicalizer re-indents but whose
// author-chosen layout is kept.
var AcceptedDeltaPattern = regexp.MustCompile(`^\s*[^\s<]`)

var errNoRoot = errors.New("document has no root element")

var leadingProcInst = regexp.MustCompile(`(?m)^(<\?[^?]*\?>)[ \t]*(<)`)

// Canonicalize parses src and renders it in canonical form. The XML
// declaration and processing instructions are kept, each on its own line,
// and the result ends with exactly one newline.
func Canonicalize(src []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(src); err != nil {
		return "", err
	}
	if doc.Root() == nil {
		return "", errNoRoot
	}

	settings := etree.NewIndentSettings()
	settings.Spaces = IndentSpaces
	settings.PreserveLeafWhitespace = true
	doc.IndentWithSettings(settings)

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("render canonical form: %w", err)
	}
	out = leadingProcInst.ReplaceAllString(out, "$1\n$2")
	return strings.TrimRight(out, "\r\n") + "\n", nil
}

// Delta is one difference between the original and canonical line lists.
// Ranges are 0-based and half-open.
type Delta struct {
	Tag        byte
	OrigStart  int
	OrigEnd    int
	CanonStart int
	CanonEnd   int
	Original   []string
	Canonical  []string
}

// Line returns the 1-based line of the original where the delta begins.
func (d Delta) Line() int {
	return d.OrigStart + 1
}

// Deltas computes the line differences between original and canonical.
// Line endings are normalized first, so CRLF files compare equal to their
// LF rendering. A final newline splits off an empty last element, so a
// document missing it differs from its canonical form by one insertion.
func Deltas(original, canonical string) []Delta {
	a := splitLines(original)
	b := splitLines(canonical)

	var deltas []Delta
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		deltas = append(deltas, Delta{
			Tag:        op.Tag,
			OrigStart:  op.I1,
			OrigEnd:    op.I2,
			CanonStart: op.J1,
			CanonEnd:   op.J2,
			Original:   a[op.I1:op.I2],
			Canonical:  b[op.J1:op.J2],
		})
	}
	return deltas
}

// FilterDeltas drops the tolerated deltas: a single original line replaced
// by a single canonical line, where the original matches
// AcceptedDeltaPattern.
func FilterDeltas(deltas []Delta) []Delta {
	var kept []Delta
	for _, d := range deltas {
		if accepted(d) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func accepted(d Delta) bool {
	return d.Tag == 'r' &&
		len(d.Original) == 1 &&
		len(d.Canonical) == 1 &&
		AcceptedDeltaPattern.MatchString(d.Original[0])
}

// RenderDiff returns a unified diff from original to canonical.
func RenderDiff(original, canonical string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        diffLines(original),
		B:        diffLines(canonical),
		FromFile: "before",
		ToFile:   "after",
		Context:  DiffContext,
	})
}

func splitLines(s string) []string {
	return strings.Split(normalize(s), "\n")
}

// lineCount is the number of lines of s, not counting the empty element
// after a final newline.
func lineCount(s string) int {
	return len(strings.SplitAfter(strings.TrimSuffix(normalize(s), "\n"), "\n"))
}

// diffLines splits s keeping line endings. Unlike difflib.SplitLines it adds
// no empty line after a final newline.
func diffLines(s string) []string {
	lines := strings.SplitAfter(normalize(s), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
