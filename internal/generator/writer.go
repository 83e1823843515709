package generator

import (
	"fmt"
	"strings"
)

// codeWriter accumulates lines of code with indentation.
type codeWriter struct {
	sb           strings.Builder
	indentLevel  int
	indentString string
}

func newCodeWriter(indentString string) *codeWriter {
	return &codeWriter{indentString: indentString}
}

func (w *codeWriter) Indent() {
	w.indentLevel++
}

func (w *codeWriter) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// WriteLine writes s on its own line. Empty lines carry no indentation.
func (w *codeWriter) WriteLine(s string) {
	if s != "" {
		w.sb.WriteString(strings.Repeat(w.indentString, w.indentLevel))
		w.sb.WriteString(s)
	}
	w.sb.WriteString("\n")
}

func (w *codeWriter) WriteLinef(format string, args ...interface{}) {
	w.WriteLine(fmt.Sprintf(format, args...))
}

func (w *codeWriter) BlankLine() {
	w.WriteLine("")
}

// WriteBlock writes opener, the indented content, then closer.
func (w *codeWriter) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

func (w *codeWriter) String() string {
	return w.sb.String()
}
