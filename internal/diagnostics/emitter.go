package diagnostics

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/thrushlang/thrushc-sub007/colors"
)

const (
	STR_MULTIPLIER = "%*d | "
	LINE_POS       = "%s--> %s:%d:%d\n"
)

// Color modes accepted by NewEmitter.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// SourceCache caches source file contents for error reporting
type SourceCache struct {
	files map[string][]string
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		files: make(map[string][]string),
	}
}

// AddSource registers in-memory content for a path.
func (sc *SourceCache) AddSource(filepath, content string) {
	sc.files[filepath] = strings.Split(content, "\n")
}

// GetLine retrieves a specific line from a source file
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	lines, ok := sc.files[filepath]
	if !ok {
		content, err := os.ReadFile(filepath)
		if err != nil {
			return "", err
		}
		lines = strings.Split(string(content), "\n")
		sc.files[filepath] = lines
	}
	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}
	return "", fmt.Errorf("line %d out of range", line)
}

// Emitter handles the rendering and output of diagnostics
type Emitter struct {
	cache  *SourceCache
	writer io.Writer
	color  bool
}

// NewEmitter creates an emitter writing to w. mode is one of auto, always or never;
// auto enables color only when w is a terminal.
func NewEmitter(w io.Writer, mode string) *Emitter {
	return &Emitter{
		cache:  NewSourceCache(),
		writer: w,
		color:  useColor(w, mode),
	}
}

// Cache exposes the source cache so callers can register in-memory sources.
func (e *Emitter) Cache() *SourceCache {
	return e.cache
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	// https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// write renders into a buffer so color codes can be dropped in one place.
func (e *Emitter) write(render func(w io.Writer)) {
	var buf bytes.Buffer
	render(&buf)
	out := buf.String()
	if !e.color {
		out = colors.StripANSI(out)
	}
	io.WriteString(e.writer, out)
}

// Emit renders one diagnostic.
func (e *Emitter) Emit(diag *Diagnostic) {
	e.write(func(w io.Writer) {
		e.printHeader(w, diag)

		for _, label := range diag.Labels {
			e.printLabel(w, label, diag.Severity)
		}

		for _, note := range diag.Notes {
			colors.BLUE.Fprint(w, "  = note: ")
			fmt.Fprintln(w, note.Message)
		}

		if diag.Help != "" {
			colors.GREEN.Fprint(w, "  = help: ")
			fmt.Fprintln(w, diag.Help)
		}

		if diag.Origin != "" {
			colors.PURPLE.Fprint(w, "  = raised at: ")
			fmt.Fprintln(w, diag.Origin)
		}

		fmt.Fprintln(w)
	})
}

func (e *Emitter) printHeader(w io.Writer, diag *Diagnostic) {
	var color colors.COLOR

	switch diag.Severity {
	case Error:
		color = colors.BOLD_RED
	case Warning:
		color = colors.BOLD_YELLOW
	case Bug:
		color = colors.BOLD_PURPLE
	}

	color.Fprint(w, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(w, "[%s]", diag.Code)
	}
	fmt.Fprint(w, ": ")
	colors.BOLD.Fprintln(w, diag.Message)
}

func (e *Emitter) printLabel(w io.Writer, label Label, severity Severity) {
	loc := label.Location
	if loc == nil || loc.Start == nil {
		if label.Message != "" {
			fmt.Fprintf(w, "  %s\n", label.Message)
		}
		return
	}

	start := loc.Start
	end := loc.End
	if end == nil {
		end = start
	}

	lineNumWidth := len(fmt.Sprintf("%d", start.Line))
	colors.BLUE.Fprintf(w, LINE_POS, strings.Repeat(" ", lineNumWidth), loc.File(), start.Line, start.Column)

	sourceLine, err := e.cache.GetLine(loc.File(), start.Line)
	if err != nil {
		// no source text available, print the message alone
		fmt.Fprint(w, strings.Repeat(" ", lineNumWidth))
		colors.GREY.Fprint(w, " = ")
		fmt.Fprintln(w, label.Message)
		return
	}

	fmt.Fprint(w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprintln(w, " |")
	colors.GREY.Fprintf(w, STR_MULTIPLIER, lineNumWidth, start.Line)
	fmt.Fprintln(w, sourceLine)

	length := 1
	if end.Line == start.Line && end.Column > start.Column {
		length = end.Column - start.Column
	} else if end.Line > start.Line {
		length = len(sourceLine) - start.Column + 1
	}
	if length < 1 {
		length = 1
	}

	underline := "-"
	color := colors.BLUE
	if label.Style == Primary {
		underline = "^"
		switch severity {
		case Warning:
			color = colors.YELLOW
		case Bug:
			color = colors.PURPLE
		default:
			color = colors.RED
		}
	}

	fmt.Fprint(w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(w, " | ")
	fmt.Fprint(w, strings.Repeat(" ", max(start.Column-1, 0)))
	color.Fprintf(w, "%s %s", strings.Repeat(underline, length), label.Message)
	fmt.Fprintln(w)
}
