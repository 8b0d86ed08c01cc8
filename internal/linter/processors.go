package linter

import "github.com/wharflab/quill/internal/processor"

// CLIProcessors returns the standard processor chain built around a shared
// inline directive filter. Each validator runs its own chain; passing the
// same filter to all of them lets the caller collect
// [processor.InlineDirectiveFilter.AdditionalViolations] once at the end.
func CLIProcessors(inlineFilter *processor.InlineDirectiveFilter) *processor.Chain {
	if inlineFilter == nil {
		inlineFilter = processor.NewInlineDirectiveFilter()
	}
	return processor.NewChain(
		processor.NewPathNormalization(),   // Normalize paths for cross-platform consistency
		processor.NewSeverityOverride(),    // Apply severity overrides (must run before EnableFilter)
		processor.NewEnableFilter(),        // Filter rules with severity="off"
		processor.NewExclusionFilter(),     // Apply checker:pattern and per-rule path exclusions
		inlineFilter,                       // Apply inline ignore directives
		processor.NewDeduplication(),       // Remove duplicate violations
		processor.NewSorting(),             // Stable output ordering
		processor.NewSnippetAttachment(),   // Attach source code snippets
	)
}
