// Package source provides the character streams the lexer scans: an
// in-memory string and a buffered reader over a file or any io.Reader.
//
// Sources are single-consumer and are not safe for concurrent use.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// EOF is returned by Next and Peek once the input is exhausted.
const EOF rune = -1

const readAhead = 1024

// Position is a 1-based line and the number of runes read on that line.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Source is the scanning surface consumed by the lexer.
type Source interface {
	// Next consumes and returns the next rune, or EOF.
	Next() rune
	// Peek returns the next rune without consuming it, or EOF.
	Peek() rune
	// Position reports where the last consumed rune sits.
	Position() Position
	// Err reports a read failure that ended the stream early.
	Err() error
}

type tracker struct {
	pos Position
}

func newTracker() tracker {
	return tracker{pos: Position{Line: 1}}
}

func (t *tracker) advance(r rune) {
	if r == '\n' {
		t.pos.Line++
		t.pos.Column = 0
		return
	}
	t.pos.Column++
}

// StringSource scans an in-memory string.
type StringSource struct {
	text   string
	offset int
	tracker
}

// NewString returns a Source over text.
func NewString(text string) *StringSource {
	return &StringSource{text: text, tracker: newTracker()}
}

func (s *StringSource) Next() rune {
	r, size := s.decode()
	if r == EOF {
		return EOF
	}
	s.offset += size
	s.advance(r)
	return r
}

func (s *StringSource) Peek() rune {
	r, _ := s.decode()
	return r
}

func (s *StringSource) decode() (rune, int) {
	if s.offset >= len(s.text) {
		return EOF, 0
	}
	return utf8.DecodeRuneInString(s.text[s.offset:])
}

func (s *StringSource) Position() Position {
	return s.pos
}

func (s *StringSource) Err() error {
	return nil
}

// ReaderSource scans an io.Reader through a read-ahead buffer.
type ReaderSource struct {
	r      *bufio.Reader
	closer io.Closer
	err    error
	done   bool
	tracker
}

// NewReader returns a Source over r.
func NewReader(r io.Reader) *ReaderSource {
	return &ReaderSource{
		r:       bufio.NewReaderSize(r, readAhead),
		tracker: newTracker(),
	}
}

// Open returns a Source reading the file at path. The caller must Close it.
func Open(path string) (*ReaderSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s := NewReader(f)
	s.closer = f
	return s, nil
}

func (s *ReaderSource) Next() rune {
	r := s.read()
	if r != EOF {
		s.advance(r)
	}
	return r
}

func (s *ReaderSource) Peek() rune {
	r := s.read()
	if r != EOF {
		_ = s.r.UnreadRune()
	}
	return r
}

func (s *ReaderSource) read() rune {
	if s.done {
		return EOF
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		s.done = true
		if err != io.EOF {
			s.err = err
		}
		return EOF
	}
	return r
}

func (s *ReaderSource) Position() Position {
	return s.pos
}

func (s *ReaderSource) Err() error {
	return s.err
}

// Close releases the underlying file when the source was created by Open.
func (s *ReaderSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
