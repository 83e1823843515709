// Package output writes generated classes to disk or to a stream.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mcncl/jsontocs/internal/analyzer"
	"github.com/mcncl/jsontocs/internal/errors"
	"github.com/mcncl/jsontocs/internal/formatter"
)

// Extension is appended to every type name to form its file name.
const Extension = ".cs"

// FileName returns the file a type is written to.
func FileName(typeName string) string {
	return typeName + Extension
}

// Writer formats registry entries and writes them out in registry order.
type Writer struct {
	formatter *formatter.Formatter
}

// NewWriter creates a Writer. A nil formatter uses formatter defaults.
func NewWriter(f *formatter.Formatter) *Writer {
	if f == nil {
		f = formatter.NewFormatter(formatter.DefaultOptions())
	}
	return &Writer{formatter: f}
}

// WriteDir writes one file per type into dir, creating it if needed, and
// returns the written paths.
func (w *Writer) WriteDir(dir string, reg *analyzer.Registry) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("failed to create directory '%s'", dir), err)
	}

	paths := make([]string, 0, reg.Len())
	for _, name := range reg.Names() {
		code, err := w.formatter.Format(reg.Source(name))
		if err != nil {
			return paths, err
		}

		path := filepath.Join(dir, FileName(name))
		if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
			return paths, errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteStream writes every type to out, separated by a blank line.
func (w *Writer) WriteStream(out io.Writer, reg *analyzer.Registry) error {
	for i, name := range reg.Names() {
		code, err := w.formatter.Format(reg.Source(name))
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return errors.NewOutputError("failed to write output", err)
			}
		}
		if _, err := io.WriteString(out, code); err != nil {
			return errors.NewOutputError("failed to write output", err)
		}
	}
	return nil
}
