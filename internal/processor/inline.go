package processor

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/wharflab/quill/internal/directive"
	"github.com/wharflab/quill/internal/rules"
)

// Rule codes for findings about inline directives themselves.
const (
	UnusedDirectiveCode  = rules.QuillPrefix + "unused-directive"
	InvalidDirectiveCode = rules.QuillPrefix + "invalid-directive"
)

// engineNamespaces hold codes quill cannot enumerate; any name is accepted.
var engineNamespaces = []string{rules.PMDPrefix, rules.FindbugsPrefix}

// InlineDirectiveFilter suppresses violations covered by inline directives
// (// quill ignore=..., // @checkstyle Rule (N lines)).
//
// One filter may be shared by several chains, one per validator: directive
// usage is tracked across all of them so AdditionalViolations can report the
// directives nothing used.
type InlineDirectiveFilter struct {
	registry *rules.Registry

	mu     sync.Mutex
	parsed map[string]*fileDirectives
}

type fileDirectives struct {
	directives []directive.Directive
	errors     []directive.ParseError
}

// NewInlineDirectiveFilter creates an inline directive filter backed by the default registry.
func NewInlineDirectiveFilter() *InlineDirectiveFilter {
	return NewInlineDirectiveFilterWithRegistry(rules.DefaultRegistry())
}

// NewInlineDirectiveFilterWithRegistry creates an inline directive filter with a custom registry.
func NewInlineDirectiveFilterWithRegistry(registry *rules.Registry) *InlineDirectiveFilter {
	if registry == nil {
		registry = rules.DefaultRegistry()
	}
	return &InlineDirectiveFilter{
		registry: registry,
		parsed:   make(map[string]*fileDirectives),
	}
}

// Name returns the processor's identifier.
func (p *InlineDirectiveFilter) Name() string {
	return "inline-directive-filter"
}

// Process drops violations suppressed by a directive in their file.
func (p *InlineDirectiveFilter) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	if !ctx.Config.InlineDirectives.Enabled {
		return violations
	}

	byFile := make(map[string][]rules.Violation)
	var order []string
	for _, v := range violations {
		if _, ok := byFile[v.Location.File]; !ok {
			order = append(order, v.Location.File)
		}
		byFile[v.Location.File] = append(byFile[v.Location.File], v)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]rules.Violation, 0, len(violations))
	for _, file := range order {
		fd := p.load(file, ctx)
		if fd == nil || len(fd.directives) == 0 {
			result = append(result, byFile[file]...)
			continue
		}
		filtered := directive.Filter(byFile[file], fd.directives)
		result = append(result, filtered.Violations...)
		markUsed(fd.directives, filtered.UnusedDirectives)
	}
	return result
}

// AdditionalViolations reports malformed directives and, when
// inline-directives.warn-unused is set, directives that suppressed nothing.
// Call it once every chain sharing the filter has run. Files in ctx that
// had no violations are parsed too, so their directives count as unused.
func (p *InlineDirectiveFilter) AdditionalViolations(ctx *Context) []rules.Violation {
	if !ctx.Config.InlineDirectives.Enabled {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	files := make([]string, 0, len(ctx.FileSources))
	for file := range ctx.FileSources {
		files = append(files, file)
	}
	slices.Sort(files)

	var out []rules.Violation
	for _, file := range files {
		fd := p.load(file, ctx)
		if fd == nil {
			continue
		}
		for _, e := range fd.errors {
			out = append(out, rules.NewViolation(
				rules.NewLineLocation(file, e.Line+1),
				InvalidDirectiveCode,
				"Invalid suppression directive: "+e.Message,
				rules.SeverityWarning,
			).WithDetail(e.RawText))
		}
		if !ctx.Config.InlineDirectives.WarnUnused {
			continue
		}
		for _, d := range fd.directives {
			if d.Used {
				continue
			}
			out = append(out, rules.NewViolation(
				rules.NewLineLocation(file, d.Line+1),
				UnusedDirectiveCode,
				"Unused suppression directive for "+strings.Join(d.Rules, ", "),
				rules.SeverityWarning,
			).WithDetail(d.RawText))
		}
	}
	return out
}

// load parses and caches the directives of a file. Callers hold p.mu.
func (p *InlineDirectiveFilter) load(file string, ctx *Context) *fileDirectives {
	if fd, ok := p.parsed[file]; ok {
		return fd
	}
	sm := ctx.GetSourceMap(file)
	if sm == nil {
		return nil
	}
	var validator directive.RuleValidator
	if ctx.Config.InlineDirectives.ValidateRules {
		validator = p.knownRule
	}
	parsed := directive.Parse(sm, validator)
	fd := &fileDirectives{directives: parsed.Directives, errors: parsed.Errors}
	p.parsed[file] = fd
	return fd
}

// knownRule accepts registered rule codes or names, and any code in an
// engine namespace.
func (p *InlineDirectiveFilter) knownRule(name string) bool {
	for _, ns := range engineNamespaces {
		if strings.HasPrefix(name, ns) {
			return true
		}
	}
	probe := directive.Directive{Rules: []string{name}}
	for _, code := range p.registry.Codes() {
		if probe.SuppressesRule(code) {
			return true
		}
	}
	return false
}

// markUsed flags every directive of the file that the last Filter call used.
// Filter works on copies, so usage is the set difference with its unused list.
func markUsed(directives, unused []directive.Directive) {
	stillUnused := make(map[string]bool, len(unused))
	for _, d := range unused {
		stillUnused[directiveKey(d)] = true
	}
	for i := range directives {
		if !stillUnused[directiveKey(directives[i])] {
			directives[i].Used = true
		}
	}
}

func directiveKey(d directive.Directive) string {
	return strconv.Itoa(d.Line) + ":" + strings.Join(d.Rules, ",")
}
