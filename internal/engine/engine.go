// Package engine imports violation reports written by third-party analysis
// engines (Checkstyle, PMD, SpotBugs/FindBugs) as quill violations.
//
// Every report, whatever its format, surfaces per finding a file, a line
// range (or none), a rule name and a message. Paths are kept as the report
// wrote them; Relativize maps them onto the scanned project.
package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/wharflab/quill/internal/rules"
)

// ErrUnknownFormat is returned for XML documents that are not a known report.
var ErrUnknownFormat = errors.New("unknown report format")

// ReadReport reads the report at path and parses it for checker.
func ReadReport(checker, path string) ([]rules.Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s report: %w", checker, err)
	}
	vs, err := ParseReport(checker, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vs, nil
}

// ParseReport detects the report format from the document root and parses
// it. Checkstyle-format and PMD-format reports are attributed to checker;
// SpotBugs collections always land in the findbugs namespace.
func ParseReport(checker string, data []byte) ([]rules.Violation, error) {
	doc, err := readDocument(data)
	if err != nil {
		return nil, err
	}
	switch doc.Root().Tag {
	case "checkstyle":
		return checkstyleViolations(checker, doc.Root()), nil
	case "pmd":
		return pmdViolations(checker, doc.Root()), nil
	case "BugCollection":
		return spotBugsViolations(doc.Root()), nil
	default:
		return nil, fmt.Errorf("%w: <%s>", ErrUnknownFormat, doc.Root().Tag)
	}
}

func readDocument(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	if doc.Root() == nil {
		return nil, errors.New("parse report: no root element")
	}
	return doc, nil
}

// Relativize maps a report path onto the project: absolute paths are made
// relative to root, and package-relative paths (as SpotBugs writes them) are
// matched by suffix against the scanned files. Unresolved paths are returned
// with forward slashes.
func Relativize(root string, files []string, path string) string {
	path = filepath.ToSlash(path)
	if filepath.IsAbs(filepath.FromSlash(path)) {
		if rel, err := filepath.Rel(root, filepath.FromSlash(path)); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
		return path
	}
	for _, f := range files {
		f = filepath.ToSlash(f)
		if f == path || strings.HasSuffix(f, "/"+path) {
			return f
		}
	}
	return path
}

// ruleName shortens a fully qualified check class to its simple name without
// the "Check" suffix: "com.puppycrawl...whitespace.FileTabCharacterCheck"
// becomes "FileTabCharacter".
func ruleName(source string) string {
	if idx := strings.LastIndexByte(source, '.'); idx >= 0 {
		source = source[idx+1:]
	}
	if trimmed := strings.TrimSuffix(source, "Check"); trimmed != "" {
		source = trimmed
	}
	return source
}

func severityOf(s string) rules.Severity {
	switch strings.ToLower(s) {
	case "warning", "warn":
		return rules.SeverityWarning
	case "info":
		return rules.SeverityInfo
	case "ignore":
		return rules.SeverityStyle
	default:
		return rules.SeverityError
	}
}
