package errors

import (
	"errors"
	"fmt"
)

// Diagnostic is the position-bearing description of a failed generation,
// suitable for a CLI message or an HTTP error payload.
type Diagnostic struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// String renders the diagnostic as line:column: message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// LexError reports malformed characters in the JSON text.
type LexError struct {
	Line   int
	Column int
	Found  string
	Err    error
}

// NewLexError creates a LexError for the given sentinel at line:column.
func NewLexError(line, column int, found string, err error) *LexError {
	return &LexError{Line: line, Column: column, Found: found, Err: err}
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.message())
}

func (e *LexError) Unwrap() error {
	return e.Err
}

func (e *LexError) message() string {
	if e.Found == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v %q", e.Err, e.Found)
}

// Diagnostic returns the position and description of the failure.
func (e *LexError) Diagnostic() Diagnostic {
	return Diagnostic{Line: e.Line, Column: e.Column, Message: e.message()}
}

// ParseError reports a grammar violation: what was expected versus what was found.
type ParseError struct {
	Line     int
	Column   int
	Expected string
	Found    string
	Err      error
}

// NewParseError creates a ParseError for the given sentinel at line:column.
func NewParseError(line, column int, expected, found string, err error) *ParseError {
	return &ParseError{Line: line, Column: column, Expected: expected, Found: found, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.message())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) message() string {
	msg := e.Err.Error()
	if e.Expected != "" {
		msg += fmt.Sprintf(": expected %s", e.Expected)
	}
	if e.Found != "" {
		msg += fmt.Sprintf(", found %s", e.Found)
	}
	return msg
}

// Diagnostic returns the position and description of the failure.
func (e *ParseError) Diagnostic() Diagnostic {
	return Diagnostic{Line: e.Line, Column: e.Column, Message: e.message()}
}

// AsDiagnostic extracts the diagnostic from a LexError or ParseError anywhere in err's chain.
func AsDiagnostic(err error) (Diagnostic, bool) {
	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return lexErr.Diagnostic(), true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Diagnostic(), true
	}
	return Diagnostic{}, false
}
