package processor

import (
	"github.com/wharflab/quill/internal/reporter"
	"github.com/wharflab/quill/internal/rules"
)

// Sorting orders a validator's violations the way every report prints them,
// see [reporter.SortViolations]. Sorting inside the chain keeps the order of
// logged violations and of the final report identical.
type Sorting struct{}

// NewSorting creates a new sorting processor.
func NewSorting() *Sorting {
	return &Sorting{}
}

// Name returns the processor's identifier.
func (p *Sorting) Name() string {
	return "sorting"
}

// Process returns the violations sorted.
func (p *Sorting) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	return reporter.SortViolations(violations)
}
