package reporter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"

	"github.com/wharflab/quill/internal/rules"
)

// Styles for different parts of the output
var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE, terminal detection)
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	ruleCodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	lineNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	severityStyles = map[rules.Severity]lipgloss.Style{
		rules.SeverityError: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		rules.SeverityWarning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
		rules.SeverityInfo: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		rules.SeverityStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")),
	}
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// SyntaxHighlight enables Java/XML syntax highlighting in snippets.
	SyntaxHighlight bool

	// ShowSource shows source code snippets and violation details
	// (such as the canonical-format diff). Default: true.
	ShowSource bool

	// ChromaStyle is the Chroma style name for syntax highlighting.
	// Default: "monokai" for dark terminals, "github" for light.
	ChromaStyle string
}

// DefaultTextOptions returns sensible defaults for text output.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:           nil, // auto-detect
		SyntaxHighlight: true,
		ShowSource:      true,
	}
}

// TextReporter formats violations as styled text output.
type TextReporter struct {
	opts      TextOptions
	colors    bool
	formatter chroma.Formatter
	style     *chroma.Style
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	r := &TextReporter{opts: opts, colors: useColors}
	if opts.Color != nil {
		r.colors = *opts.Color
	}

	if r.colors && opts.SyntaxHighlight {
		styleName := opts.ChromaStyle
		if styleName == "" {
			if lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
				styleName = "monokai"
			} else {
				styleName = "github"
			}
		}
		r.style = styles.Get(styleName)
		if r.style == nil {
			r.style = styles.Fallback
		}

		r.formatter = formatters.Get("terminal256")
		if r.formatter == nil {
			r.formatter = formatters.Fallback
		}
	}

	return r
}

// Print writes violations to the writer in file/line order.
func (r *TextReporter) Print(w io.Writer, violations []rules.Violation, sources map[string][]byte) error {
	for _, v := range SortViolations(violations) {
		if err := r.printViolation(w, v, sources[v.Location.File]); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextReporter) printViolation(w io.Writer, v rules.Violation, source []byte) error {
	sevStyle, ok := severityStyles[v.Severity]
	if !ok {
		sevStyle = warningStyle
	}

	// Header line: SEVERITY: RuleCode - URL
	sevLabel := strings.ToUpper(v.Severity.String()) + ":"
	var header string
	if r.colors {
		header = fmt.Sprintf("\n%s %s", sevStyle.Render(sevLabel), ruleCodeStyle.Render(v.RuleCode))
		if v.DocURL != "" {
			header += " - " + urlStyle.Render(v.DocURL)
		}
	} else {
		header = fmt.Sprintf("\n%s %s", sevLabel, v.RuleCode)
		if v.DocURL != "" {
			header += " - " + v.DocURL
		}
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	msg := v.Message
	if v.Location.IsFileLevel() {
		msg = v.Location.File + ": " + msg
	}
	if r.colors {
		msg = messageStyle.Render(msg)
	}
	if _, err := fmt.Fprintln(w, msg); err != nil {
		return err
	}

	if !r.opts.ShowSource {
		return nil
	}
	if !v.Location.IsFileLevel() && len(source) > 0 {
		r.printSource(w, v.Location, source)
	}
	if v.Detail != "" {
		r.printDetail(w, v.Detail)
	}
	return nil
}

// printSource renders the source code snippet with optional syntax highlighting.
func (r *TextReporter) printSource(w io.Writer, loc rules.Location, source []byte) {
	lines := strings.Split(string(source), "\n")

	start := loc.Start.Line
	end := loc.End.Line
	if loc.IsPointLocation() || end < start {
		end = start
	}
	if start > len(lines) || start < 1 {
		return
	}
	if end > len(lines) {
		end = len(lines)
	}

	// 2-4 lines of context
	pad := 2
	if end == start {
		pad = 4
	}
	displayStart := start
	for p := 0; p < pad; {
		expanded := false
		if start > 1 {
			start--
			p++
			expanded = true
		}
		if end < len(lines) {
			end++
			p++
			expanded = true
		}
		if !expanded {
			break
		}
	}

	lexer := r.lexerFor(loc.File)

	fmt.Fprintln(w)
	if r.colors {
		fmt.Fprintln(w, fileLocStyle.Render(fmt.Sprintf("%s:%d", loc.File, displayStart)))
		fmt.Fprintln(w, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintf(w, "%s:%d\n", loc.File, displayStart)
		fmt.Fprintln(w, "--------------------")
	}

	for i := start; i <= end; i++ {
		lineContent := strings.TrimSuffix(lines[i-1], "\r")

		lineNum := fmt.Sprintf(" %3d |", i)
		if r.colors {
			lineNum = lineNumStyle.Render(fmt.Sprintf(" %3d │", i))
		}

		marker := "   "
		if lineInRange(i, loc.Start.Line, loc.End.Line) {
			marker = ">>>"
			if r.colors {
				marker = markerStyle.Render(marker)
			}
		}

		content := lineContent
		if lexer != nil {
			content = r.highlightLine(lexer, lineContent)
		}

		fmt.Fprintf(w, "%s %s %s\n", lineNum, marker, content)
	}

	if r.colors {
		fmt.Fprintln(w, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintln(w, "--------------------")
	}
}

// printDetail writes a multi-line detail block indented under the violation.
func (r *TextReporter) printDetail(w io.Writer, detail string) {
	fmt.Fprintln(w)
	for line := range strings.SplitSeq(strings.TrimRight(detail, "\n"), "\n") {
		if r.colors {
			line = detailStyle.Render(line)
		}
		fmt.Fprintln(w, "    "+line)
	}
}

// lexerFor returns the highlighting lexer for a file, or nil when
// highlighting is off.
func (r *TextReporter) lexerFor(file string) chroma.Lexer {
	if r.formatter == nil || r.style == nil {
		return nil
	}
	lexer := lexers.Match(file)
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

// highlightLine applies syntax highlighting to a single line.
func (r *TextReporter) highlightLine(lexer chroma.Lexer, line string) string {
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// PrintTextPlain writes violations without any styling (for non-TTY output).
func PrintTextPlain(w io.Writer, violations []rules.Violation, sources map[string][]byte) error {
	noColor := false
	r := NewTextReporter(TextOptions{Color: &noColor, ShowSource: true})
	return r.Print(w, violations, sources)
}

// lineInRange checks if a 1-based line number is within the range [start, end].
func lineInRange(line, start, end int) bool {
	if end < start {
		end = start
	}
	return line >= start && line <= end
}
