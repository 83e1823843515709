// Package lexer turns a character source into a single-lookahead stream of
// JSON tokens.
//
// Known limitations: numbers have no sign and no exponent, strings are not
// escape-decoded (a backslash only stops an immediately following quote from
// closing the string), and the only identifiers are true and false.
package lexer

import (
	"strings"
	"unicode"

	"github.com/mcncl/jsontocs/internal/errors"
	"github.com/mcncl/jsontocs/internal/source"
)

// Lexer holds the current token and computes the next one on demand.
type Lexer struct {
	src source.Source
	tok Token
	sb  strings.Builder
}

// New returns a Lexer positioned on the first token of src.
func New(src source.Source) (*Lexer, error) {
	l := &Lexer{src: src}
	if err := l.Advance(); err != nil {
		return nil, err
	}
	return l, nil
}

// Current returns the lookahead token without consuming it.
func (l *Lexer) Current() Token {
	return l.tok
}

// Position reports the source position, used for diagnostics.
func (l *Lexer) Position() source.Position {
	return l.src.Position()
}

// Expect consumes the current token if it has the given kind.
func (l *Lexer) Expect(kind Kind) error {
	if l.tok.Kind != kind {
		return errors.NewParseError(l.tok.Pos.Line, l.tok.Pos.Column, kind.String(), l.tok.Describe(), errors.ErrExpectedToken)
	}
	return l.Advance()
}

// Advance consumes the current token and scans the next one.
func (l *Lexer) Advance() error {
	c := l.src.Next()
	for c != source.EOF && unicode.IsSpace(c) {
		c = l.src.Next()
	}
	start := l.src.Position()

	if c == source.EOF {
		if err := l.src.Err(); err != nil {
			return errors.NewInputError("failed to read input", err)
		}
		l.tok = Token{Kind: KindEOF, Pos: start}
		return nil
	}

	if kind, ok := punctuation[c]; ok {
		l.tok = Token{Kind: kind, Text: string(c), Pos: start}
		return nil
	}

	switch {
	case c == '"':
		return l.scanString(start)
	case isDigit(c):
		l.scanNumber(c, start)
		return nil
	case unicode.IsLetter(c):
		return l.scanIdentifier(c, start)
	}

	return errors.NewLexError(start.Line, start.Column, string(c), errors.ErrUnexpectedChar)
}

func (l *Lexer) scanString(start source.Position) error {
	l.sb.Reset()
	prev := source.EOF
	for {
		c := l.src.Next()
		if c == source.EOF {
			if err := l.src.Err(); err != nil {
				return errors.NewInputError("failed to read input", err)
			}
			pos := l.src.Position()
			return errors.NewLexError(pos.Line, pos.Column, "", errors.ErrUnterminatedString)
		}
		if c == '"' && prev != '\\' {
			break
		}
		l.sb.WriteRune(c)
		prev = c
	}
	l.tok = Token{Kind: KindString, Text: l.sb.String(), Pos: start}
	return nil
}

func (l *Lexer) scanNumber(first rune, start source.Position) {
	l.sb.Reset()
	l.sb.WriteRune(first)
	for isDigit(l.src.Peek()) {
		l.sb.WriteRune(l.src.Next())
	}
	if l.src.Peek() == '.' {
		l.sb.WriteRune(l.src.Next())
		for isDigit(l.src.Peek()) {
			l.sb.WriteRune(l.src.Next())
		}
	}
	l.tok = Token{Kind: KindNumber, Text: l.sb.String(), Pos: start}
}

func (l *Lexer) scanIdentifier(first rune, start source.Position) error {
	l.sb.Reset()
	l.sb.WriteRune(first)
	for unicode.IsLetter(l.src.Peek()) {
		l.sb.WriteRune(l.src.Next())
	}
	word := l.sb.String()
	kind, ok := identifiers[word]
	if !ok {
		return errors.NewLexError(start.Line, start.Column, word, errors.ErrUnknownIdentifier)
	}
	l.tok = Token{Kind: kind, Text: word, Pos: start}
	return nil
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
