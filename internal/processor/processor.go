// Package processor provides a composable violation processing pipeline.
//
// The processor chain pattern is inspired by golangci-lint's approach:
// violations flow through a sequence of processors, each transforming
// the slice (filtering, modifying, or augmenting).
//
// Standard pipeline order:
//  1. PathNormalization - Cross-platform path consistency
//  2. SeverityOverride - Apply config severity overrides
//  3. EnableFilter - Remove violations for disabled rules
//  4. ExclusionFilter - Apply checker:pattern and per-rule path exclusions
//  5. InlineDirectiveFilter - Apply // quill ignore=... and @checkstyle directives
//  6. Deduplication - Remove duplicate violations
//  7. Sorting - Stable output ordering
//  8. SnippetAttachment - Populate SourceCode field
package processor

import (
	"github.com/wharflab/quill/internal/config"
	"github.com/wharflab/quill/internal/exclude"
	"github.com/wharflab/quill/internal/rules"
	"github.com/wharflab/quill/internal/sourcemap"
)

// Processor transforms a slice of violations.
// Implementations should be stateless where possible, using Context for shared state.
type Processor interface {
	// Name returns the processor's identifier (for debugging/logging).
	Name() string

	// Process applies the processor's logic to violations.
	// Returns the transformed slice (may be same, filtered, or modified).
	// Must not modify the input slice; return a new slice if filtering.
	Process(violations []rules.Violation, ctx *Context) []rules.Violation
}

// Context provides shared state for processors.
// Populated once before running the chain, then passed to each processor.
// A Context is not safe for concurrent use; give each goroutine its own.
type Context struct {
	// Config is the loaded configuration.
	Config *config.Config

	// Exclusions holds the project's checker:pattern exclusions. May be nil.
	Exclusions *exclude.Matcher

	// FileSources maps file paths to their raw source content.
	// Used by SnippetAttachment and InlineDirectiveFilter.
	FileSources map[string][]byte

	// SourceMaps caches parsed source maps by file path.
	// Lazily populated by GetSourceMap.
	sourceMaps map[string]*sourcemap.SourceMap
}

// NewContext creates a new processor context. A nil config means defaults.
func NewContext(exclusions *exclude.Matcher, cfg *config.Config, fileSources map[string][]byte) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Context{
		Config:      cfg,
		Exclusions:  exclusions,
		FileSources: fileSources,
		sourceMaps:  make(map[string]*sourcemap.SourceMap),
	}
}

// GetSourceMap returns or creates a SourceMap for the given file.
// Returns nil if the file is not in FileSources.
func (ctx *Context) GetSourceMap(file string) *sourcemap.SourceMap {
	if sm, ok := ctx.sourceMaps[file]; ok {
		return sm
	}
	source, ok := ctx.FileSources[file]
	if !ok {
		return nil
	}
	sm := sourcemap.New(source)
	ctx.sourceMaps[file] = sm
	return sm
}

// Chain runs processors in sequence.
type Chain struct {
	processors []Processor
}

// NewChain creates a new processor chain.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Process runs all processors in sequence.
func (c *Chain) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	for _, p := range c.processors {
		violations = p.Process(violations, ctx)
	}
	return violations
}

// filterViolations is a helper for processors that filter violations.
// It returns a new slice containing only violations where keep() returns true.
func filterViolations(violations []rules.Violation, keep func(v rules.Violation) bool) []rules.Violation {
	result := make([]rules.Violation, 0, len(violations))
	for _, v := range violations {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// transformViolations is a helper for processors that modify violations.
// It returns a new slice with each violation transformed by transform().
func transformViolations(
	violations []rules.Violation,
	transform func(v rules.Violation) rules.Violation,
) []rules.Violation {
	result := make([]rules.Violation, len(violations))
	for i, v := range violations {
		result[i] = transform(v)
	}
	return result
}
