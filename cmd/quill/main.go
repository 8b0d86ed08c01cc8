// Command quill checks Java sources and XML files for formatting and style
// defects.
package main

import (
	"fmt"
	"os"

	"github.com/wharflab/quill/cmd/quill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cmd.ExitConfigError)
	}
}
