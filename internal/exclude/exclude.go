// Package exclude decides whether a candidate violation is suppressed by a
// project's "checker:pattern" exclusion rules.
//
// Patterns are grouped by checker. The checker decides how its patterns are
// read:
//
//	checkstyle, pmd (and unknown checkers)  regular expression, anchored, matched
//	                                        against "/"+path relative to the root
//	xml                                     doublestar glob against the relative path
//	findbugs, spotbugs                      class:method:bug triple, empty segment = any
//
// A Matcher never changes its pattern table after New and is safe for
// concurrent use.
package exclude

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind is the pattern syntax used by a checker.
type Kind int

const (
	// KindRegex patterns are regular expressions over the item path.
	KindRegex Kind = iota
	// KindGlob patterns are doublestar globs over the item path.
	KindGlob
	// KindTriple patterns are class:method:bug triples.
	KindTriple
)

// KindFor returns the pattern syntax of a checker.
func KindFor(checker string) Kind {
	switch checker {
	case "xml":
		return KindGlob
	case "findbugs", "spotbugs":
		return KindTriple
	default:
		return KindRegex
	}
}

// Item is a candidate for exclusion. Path is relative to the project root;
// Class, Method and Code are filled in for bug-pattern findings.
type Item struct {
	Path   string
	Class  string
	Method string
	Code   string
}

// PatternError reports a pattern that cannot be compiled.
type PatternError struct {
	Checker string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s exclusion pattern %q: %v", e.Checker, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Matcher holds exclusion patterns partitioned by checker.
type Matcher struct {
	patterns map[string][]string

	mu       sync.Mutex
	compiled map[string]*compiledSet
}

type compiledSet struct {
	regexps []*regexp.Regexp
	err     error
}

// New builds a matcher from "checker:pattern" strings. Each string may hold
// several comma-separated rules. Entries without a checker prefix are
// returned as ignored so the caller can warn about them.
func New(rules []string) (*Matcher, []string) {
	m := &Matcher{
		patterns: make(map[string][]string),
		compiled: make(map[string]*compiledSet),
	}
	var ignored []string
	for _, rule := range rules {
		for entry := range strings.SplitSeq(rule, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			checker, pattern, ok := strings.Cut(entry, ":")
			checker = strings.ToLower(strings.TrimSpace(checker))
			if !ok || checker == "" || pattern == "" {
				ignored = append(ignored, entry)
				continue
			}
			m.patterns[checker] = append(m.patterns[checker], pattern)
		}
	}
	return m, ignored
}

// Patterns returns a copy of the patterns registered for a checker.
func (m *Matcher) Patterns(checker string) []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.patterns[checker])
}

// Checkers returns the checkers that have at least one pattern, sorted.
func (m *Matcher) Checkers() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.patterns))
	for c := range m.patterns {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Compile validates every pattern of a checker. An invalid pattern is a
// configuration failure for that checker's validator.
func (m *Matcher) Compile(checker string) error {
	if m == nil {
		return nil
	}
	return m.set(checker).err
}

// Excluded reports whether item is suppressed for checker. A checker with
// no patterns excludes nothing; so does a checker whose patterns failed to
// compile (Compile reports that case).
func (m *Matcher) Excluded(checker string, item Item) bool {
	if m == nil || len(m.patterns[checker]) == 0 {
		return false
	}
	switch KindFor(checker) {
	case KindGlob:
		return m.globExcluded(checker, item.Path)
	case KindTriple:
		return m.tripleExcluded(checker, item)
	default:
		return m.regexExcluded(checker, item.Path)
	}
}

// ExcludedPath is Excluded for an item known only by its path.
func (m *Matcher) ExcludedPath(checker, path string) bool {
	return m.Excluded(checker, Item{Path: path})
}

func (m *Matcher) regexExcluded(checker, path string) bool {
	set := m.set(checker)
	if set.err != nil {
		return false
	}
	rooted := rootedPath(path)
	for _, re := range set.regexps {
		if re.MatchString(rooted) || re.MatchString(rooted[1:]) {
			return true
		}
	}
	return false
}

func (m *Matcher) globExcluded(checker, path string) bool {
	return MatchGlobs(m.patterns[checker], path)
}

// MatchGlobs reports whether path matches any doublestar glob in patterns.
// A leading "/" anchors nothing extra, and a bare file name such as
// "pom.xml" matches at any depth. Invalid patterns never match.
func MatchGlobs(patterns []string, path string) bool {
	rel := strings.TrimPrefix(rootedPath(path), "/")
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(pattern, "/")
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match("**/"+pattern, rel); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) tripleExcluded(checker string, item Item) bool {
	for _, pattern := range m.patterns[checker] {
		if matchTriple(pattern, item) {
			return true
		}
	}
	return false
}

// matchTriple matches class:method:bug. Every non-empty segment must equal the
// item's attribute; the class segment also accepts the simple class name.
func matchTriple(pattern string, item Item) bool {
	parts := strings.SplitN(pattern, ":", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	class, method, code := parts[0], parts[1], parts[2]
	if class == "" && method == "" && code == "" {
		return false
	}
	if class != "" && class != item.Class && class != simpleName(item.Class) {
		return false
	}
	if method != "" && method != item.Method {
		return false
	}
	if code != "" && code != item.Code {
		return false
	}
	return true
}

func simpleName(class string) string {
	if idx := strings.LastIndex(class, "."); idx >= 0 {
		return class[idx+1:]
	}
	return class
}

func (m *Matcher) set(checker string) *compiledSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.compiled[checker]; ok {
		return set
	}
	set := compile(checker, m.patterns[checker])
	m.compiled[checker] = set
	return set
}

func compile(checker string, patterns []string) *compiledSet {
	set := &compiledSet{}
	for _, pattern := range patterns {
		switch KindFor(checker) {
		case KindGlob:
			if !doublestar.ValidatePattern(strings.TrimPrefix(pattern, "/")) {
				set.err = &PatternError{Checker: checker, Pattern: pattern, Err: doublestar.ErrBadPattern}
				return set
			}
		case KindTriple:
			if strings.Count(pattern, ":") > 2 {
				set.err = &PatternError{Checker: checker, Pattern: pattern, Err: errTooManySegments}
				return set
			}
		default:
			re, err := regexp.Compile("^(?:" + pattern + ")$")
			if err != nil {
				set.err = &PatternError{Checker: checker, Pattern: pattern, Err: err}
				return set
			}
			set.regexps = append(set.regexps, re)
		}
	}
	return set
}

var errTooManySegments = errors.New("expected at most class:method:bug")

func rootedPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
