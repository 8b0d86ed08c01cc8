package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/quill/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "quill",
		Usage:   "A strict style checker for Java sources and XML files",
		Version: version.Version(),
		Description: `quill checks Java sources and XML files for formatting and style
defects, imports the reports of PMD, Checkstyle and SpotBugs, and fails the
build when anything is left unexcluded.

Examples:
  quill check
  quill check --exclude 'checkstyle:/src/main/java/com/example/Gen.java' src
  quill check --pmd-report target/pmd.xml --format sarif -o quill.sarif`,
		Commands: []*cli.Command{
			checkCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
