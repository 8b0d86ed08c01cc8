package processor

import (
	"github.com/wharflab/quill/internal/rules"
	"github.com/wharflab/quill/internal/sourcemap"
)

// maxSnippetLines caps quoted source. Engine findings on a whole method or
// class would otherwise copy the body into every report.
const maxSnippetLines = 5

// SnippetAttachment copies the offending source lines into
// Violation.SourceCode, which SARIF output embeds as the region snippet.
// Violations without a line, without a known source, or with a snippet
// already set are left alone.
type SnippetAttachment struct{}

// NewSnippetAttachment creates a new snippet attachment processor.
func NewSnippetAttachment() *SnippetAttachment {
	return &SnippetAttachment{}
}

// Name returns the processor's identifier.
func (p *SnippetAttachment) Name() string {
	return "snippet-attachment"
}

// Process attaches source snippets.
func (p *SnippetAttachment) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	return transformViolations(violations, func(v rules.Violation) rules.Violation {
		if v.SourceCode != "" || v.Location.IsFileLevel() {
			return v
		}
		if sm := ctx.GetSourceMap(v.Location.File); sm != nil {
			v.SourceCode = snippetFor(sm, v.Location)
		}
		return v
	})
}

// snippetFor returns the 1-based inclusive rows of loc, at most
// maxSnippetLines of them. Rows past the end of the file are dropped; the
// empty row after a final newline counts as past the end.
func snippetFor(sm *sourcemap.SourceMap, loc rules.Location) string {
	first := loc.Start.Line
	if first < 1 {
		return ""
	}
	rows := sm.LineCount()
	if rows > 0 && sm.Line(rows-1) == "" {
		rows--
	}
	last := min(max(loc.End.Line, first), first+maxSnippetLines-1, rows)
	if last < first {
		return ""
	}
	return sm.Snippet(first-1, last-1)
}
