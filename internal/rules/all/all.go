// Package all imports all rule packages to register them.
// Import this package with a blank identifier to enable all rules:
//
//	import _ "github.com/wharflab/quill/internal/rules/all"
package all

import (
	// Import all rule packages to trigger their init() registration
	_ "github.com/wharflab/quill/internal/rules/bracketsstructure"
	_ "github.com/wharflab/quill/internal/rules/cascadeindentation"
	_ "github.com/wharflab/quill/internal/rules/javadoclocation"
	_ "github.com/wharflab/quill/internal/rules/multilinejavadoctags"
	_ "github.com/wharflab/quill/internal/rules/puzzleformat"
	_ "github.com/wharflab/quill/internal/xmlformat"
)
