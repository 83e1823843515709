package formatter

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsontocs/internal/errors"
)

// sourceIndent is the indentation unit the generator emits.
const sourceIndent = "    "

// Options controls how generated C# is laid out on disk.
type Options struct {
	// Indent is the number of spaces per level. Zero selects tabs.
	Indent int
	// LineEnding is "lf" or "crlf".
	LineEnding string
	// FileHeader is written as // comment lines at the top of each file.
	FileHeader string
}

// DefaultOptions matches what the generator emits, so Format only trims.
func DefaultOptions() Options {
	return Options{Indent: 4, LineEnding: "lf"}
}

// Formatter is responsible for laying out generated C# source for output
type Formatter struct {
	opts Options
}

// NewFormatter creates a new Formatter instance
func NewFormatter(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// Format re-indents code, trims trailing whitespace, prepends the file header
// and applies the configured line ending.
func (f *Formatter) Format(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	newline, err := f.newline()
	if err != nil {
		return "", err
	}

	code = strings.ReplaceAll(code, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")

	out := make([]string, 0, len(lines)+4)
	out = append(out, f.header()...)
	for _, line := range lines {
		out = append(out, f.reindent(strings.TrimRight(line, " \t")))
	}

	return strings.Join(out, newline) + newline, nil
}

func (f *Formatter) newline() (string, error) {
	switch strings.ToLower(f.opts.LineEnding) {
	case "", "lf":
		return "\n", nil
	case "crlf":
		return "\r\n", nil
	}
	return "", errors.NewFormatError(fmt.Sprintf("unknown line ending %q", f.opts.LineEnding), errors.ErrInvalidOption)
}

func (f *Formatter) header() []string {
	if strings.TrimSpace(f.opts.FileHeader) == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(strings.TrimRight(f.opts.FileHeader, "\n"), "\n") {
		lines = append(lines, strings.TrimRight("// "+l, " "))
	}
	return append(lines, "")
}

// reindent swaps each leading 4-space unit for the configured unit. Any
// leftover spaces are kept as they are.
func (f *Formatter) reindent(line string) string {
	level := 0
	rest := line
	for strings.HasPrefix(rest, sourceIndent) {
		rest = rest[len(sourceIndent):]
		level++
	}
	if level == 0 {
		return line
	}

	unit := "\t"
	if f.opts.Indent > 0 {
		unit = strings.Repeat(" ", f.opts.Indent)
	}
	return strings.Repeat(unit, level) + rest
}
