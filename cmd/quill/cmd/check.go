package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gkampitakis/ciinfo"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/quill/internal/config"
	"github.com/wharflab/quill/internal/discovery"
	"github.com/wharflab/quill/internal/exclude"
	"github.com/wharflab/quill/internal/linter"
	"github.com/wharflab/quill/internal/reporter"
	"github.com/wharflab/quill/internal/rules"
	"github.com/wharflab/quill/internal/validate"
	"github.com/wharflab/quill/internal/version"
)

// Exit codes
const (
	ExitSuccess     = 0 // No violations (or below fail-level threshold)
	ExitViolations  = 1 // Violations found at or above fail-level
	ExitConfigError = 2 // Config error or a validator that could not run
	ExitNoFiles     = 3 // Nothing to check: no files and no engine reports
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check Java sources and XML files",
		ArgsUsage: "[PATH...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "Exclusion rule checker:pattern, e.g. checkstyle:/src/gen/.* (can be repeated)",
				Sources: cli.EnvVars("QUILL_EXCLUDE"),
			},
			&cli.StringSliceFlag{
				Name:  "skip",
				Usage: "Glob of files never discovered (can be repeated)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, github-actions, markdown",
				Sources: cli.EnvVars("QUILL_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Hide source code snippets and diffs",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of files checked concurrently",
			},
			&cli.StringSliceFlag{
				Name:  "select",
				Usage: "Enable specific checks (pattern: rule-code, namespace/*, *)",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Disable specific checks (pattern: rule-code, namespace/*, *)",
			},
			&cli.StringFlag{
				Name:  "fail-level",
				Usage: "Minimum severity to cause non-zero exit: error, warning, info, style, none",
			},
			&cli.StringSliceFlag{
				Name:  "validator",
				Usage: "Run only the named validators: checkstyle, xml, pmd, findbugs (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "checkstyle-report",
				Usage: "Checkstyle XML report to import (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "pmd-report",
				Usage: "PMD report to import (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "findbugs-report",
				Usage: "SpotBugs/FindBugs XML report to import (can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "no-inline-directives",
				Usage: "Disable processing of inline suppression comments",
			},
			&cli.BoolFlag{
				Name:  "warn-unused-directives",
				Usage: "Report suppression comments that suppress nothing",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Write the build log, including every violation and timings",
				Sources: cli.EnvVars("QUILL_VERBOSE"),
			},
		},
		Action: runCheck,
	}
}

// checkOptions is everything a check run takes from the command line.
type checkOptions struct {
	inputs     []string
	configPath string
	overrides  map[string]any
	exclude    []string
	selected   []string
	ignored    []string
	verbose    bool
	stderr     io.Writer
}

// runCheck is the action handler for the check command.
func runCheck(ctx context.Context, cmd *cli.Command) error {
	if code := check(ctx, optionsFromFlags(cmd)); code != ExitSuccess {
		return cli.Exit("", code)
	}
	return nil
}

// optionsFromFlags maps explicitly set flags onto config keys; unset flags
// leave the file and environment layers alone.
func optionsFromFlags(cmd *cli.Command) checkOptions {
	overrides := make(map[string]any)
	setString := func(flag, key string) {
		if cmd.IsSet(flag) {
			overrides[key] = cmd.String(flag)
		}
	}
	setList := func(flag, key string) {
		if cmd.IsSet(flag) {
			overrides[key] = cmd.StringSlice(flag)
		}
	}

	setString("format", "output.format")
	setString("output", "output.path")
	setString("fail-level", "output.fail-level")
	setList("skip", "scan.skip")
	setList("validator", "scan.validators")
	setList("checkstyle-report", "engines.checkstyle")
	setList("pmd-report", "engines.pmd")
	setList("findbugs-report", "engines.findbugs")
	if cmd.IsSet("jobs") {
		overrides["scan.jobs"] = cmd.Int("jobs")
	}
	if cmd.IsSet("no-color") && cmd.Bool("no-color") {
		overrides["output.color"] = "never"
	}
	if cmd.IsSet("hide-source") && cmd.Bool("hide-source") {
		overrides["output.show-source"] = false
	}
	if cmd.IsSet("no-inline-directives") {
		overrides["inline-directives.enabled"] = !cmd.Bool("no-inline-directives")
	}
	if cmd.IsSet("warn-unused-directives") {
		overrides["inline-directives.warn-unused"] = cmd.Bool("warn-unused-directives")
	}

	return checkOptions{
		inputs:     cmd.Args().Slice(),
		configPath: cmd.String("config"),
		overrides:  overrides,
		exclude:    cmd.StringSlice("exclude"),
		selected:   cmd.StringSlice("select"),
		ignored:    cmd.StringSlice("ignore"),
		verbose:    cmd.Bool("verbose"),
		stderr:     os.Stderr,
	}
}

// check runs every validator over the inputs, writes the report and returns
// the exit code.
func check(ctx context.Context, opts checkOptions) int {
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}
	inputs := opts.inputs
	if len(inputs) == 0 {
		inputs = []string{"."}
	}
	root := projectRoot(inputs)

	cfg, err := config.LoadWithOverrides(root, opts.configPath, opts.overrides)
	if err != nil {
		fmt.Fprintf(opts.stderr, "Error: failed to load config: %v\n", err)
		return ExitConfigError
	}
	cfg.Rules.Include = append(cfg.Rules.Include, opts.selected...)
	cfg.Rules.Exclude = append(cfg.Rules.Exclude, opts.ignored...)

	log := newLogger(opts.stderr, opts.verbose)
	if cfg.ConfigFile != "" {
		log.WithField("config", cfg.ConfigFile).Debug("configuration loaded")
	}

	discovered, err := discovery.Discover(inputs, discovery.Options{
		Root:            root,
		ExcludePatterns: cfg.Scan.Skip,
	})
	if err != nil {
		fmt.Fprintf(opts.stderr, "Error: failed to discover files: %v\n", err)
		return ExitConfigError
	}

	validators, engines := buildValidators(cfg)
	if len(discovered) == 0 && engines == 0 {
		reportNoFilesFound(opts.stderr, inputs)
		return ExitNoFiles
	}

	matcher, skipped := exclude.New(append(slices.Clone(cfg.Exclusions.Patterns), opts.exclude...))
	for _, entry := range skipped {
		log.WithField("exclusion", entry).Warn("ignoring exclusion without checker prefix, expected checker:pattern")
	}

	env := &validate.Env{
		Root:       root,
		Files:      discovered,
		Exclusions: matcher,
		Config:     cfg,
		Log:        log,
	}
	result := validate.New(validators...).Run(ctx, env)

	return writeReport(opts.stderr, cfg, result, env.Sources(), len(discovered))
}

// projectRoot is the directory violation paths are relative to: the single
// directory given on the command line, or the working directory.
func projectRoot(inputs []string) string {
	if len(inputs) == 1 {
		if info, err := os.Stat(inputs[0]); err == nil && info.IsDir() {
			return inputs[0]
		}
	}
	return "."
}

// buildValidators returns the validators a run executes, in report order,
// and how many of them import engine reports.
func buildValidators(cfg *config.Config) ([]validate.Validator, int) {
	all := []validate.Validator{validate.Checkstyle(), validate.XML()}
	engines := []struct {
		name    string
		reports []string
	}{
		{"checkstyle", cfg.Engines.Checkstyle},
		{"pmd", cfg.Engines.PMD},
		{"findbugs", cfg.Engines.Findbugs},
	}
	for _, e := range engines {
		if len(e.reports) > 0 {
			all = append(all, validate.Engine(e.name, e.reports...))
		}
	}

	selected := all
	if len(cfg.Scan.Validators) > 0 {
		selected = slices.DeleteFunc(all, func(v validate.Validator) bool {
			return !slices.Contains(cfg.Scan.Validators, v.Name())
		})
	}

	count := 0
	for _, e := range engines {
		if len(e.reports) > 0 && (len(cfg.Scan.Validators) == 0 || slices.Contains(cfg.Scan.Validators, e.name)) {
			count++
		}
	}
	return selected, count
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    !isTerminal(w),
	})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// writeReport formats and writes the report and returns the exit code.
func writeReport(
	stderr io.Writer, cfg *config.Config, result *validate.Result,
	sources map[string][]byte, filesScanned int,
) int {
	formatType, err := reporter.ParseFormat(cfg.Output.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitConfigError
	}

	writer, closeWriter, err := reporter.GetWriter(cfg.Output.Path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitConfigError
	}
	defer func() {
		if err := closeWriter(); err != nil {
			fmt.Fprintf(stderr, "Warning: failed to close output: %v\n", err)
		}
	}()

	rep, err := reporter.New(reporter.Options{
		Format:      formatType,
		Writer:      writer,
		Color:       colorOption(cfg.Output.Color, writer),
		ShowSource:  cfg.Output.ShowSource,
		ToolName:    "quill",
		ToolVersion: version.RawVersion(),
		ToolURI:     "https://github.com/wharflab/quill",
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create reporter: %v\n", err)
		return ExitConfigError
	}

	violations := result.Violations()
	metadata := reporter.ReportMetadata{
		FilesScanned: filesScanned,
		RulesEnabled: len(linter.EnabledRuleCodes(cfg)),
	}
	for _, verr := range result.Errors {
		metadata.ValidatorErrors = append(metadata.ValidatorErrors, verr.Error())
	}

	if err := rep.Report(violations, sources, metadata); err != nil {
		fmt.Fprintf(stderr, "Error: failed to write output: %v\n", err)
		return ExitConfigError
	}

	if len(result.Errors) > 0 {
		for line := range strings.SplitSeq(result.Err().Error(), "\n") {
			fmt.Fprintf(stderr, "Error: %s\n", line)
		}
		return ExitConfigError
	}

	code := determineExitCode(stderr, violations, cfg.Output.FailLevel)
	if code == ExitViolations {
		fmt.Fprintf(stderr, "Error: %v\n", result.Err())
	}
	return code
}

// colorOption resolves output.color to the reporter's tri-state: nil lets
// the terminal profile decide.
func colorOption(mode string, w io.Writer) *bool {
	on, off := true, false
	switch mode {
	case "always":
		return &on
	case "never":
		return &off
	}
	if ciinfo.IsCI || !isTerminal(w) {
		return &off
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// determineExitCode returns the appropriate exit code based on violations and fail-level.
func determineExitCode(stderr io.Writer, violations []rules.Violation, failLevel string) int {
	if failLevel == "none" {
		return ExitSuccess
	}

	// Parse fail-level first to catch config errors even with no violations
	threshold, err := parseFailLevel(failLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid --fail-level %q\n", failLevel)
		return ExitConfigError
	}

	for _, v := range violations {
		if v.Severity.IsAtLeast(threshold) {
			return ExitViolations
		}
	}
	return ExitSuccess
}

// parseFailLevel parses a fail-level string to a Severity.
func parseFailLevel(level string) (rules.Severity, error) {
	switch level {
	case "", "style":
		return rules.SeverityStyle, nil
	default:
		return rules.ParseSeverity(level)
	}
}

// reportNoFilesFound prints a context-aware message when nothing matched.
func reportNoFilesFound(stderr io.Writer, inputs []string) {
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			fmt.Fprintf(stderr, "Error: no Java or XML files found in %s\n", abs)
			return
		}
	}
	fmt.Fprintf(stderr, "Error: no Java or XML files matched %v\n", inputs)
}
