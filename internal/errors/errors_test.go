package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "invalid JSON syntax",
			},
			expected: "parsing: invalid JSON syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_IsAndUnwrap(t *testing.T) {
	appErr := NewInputError("test message", ErrFileNotFound)

	assert.Equal(t, ErrFileNotFound, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, &AppError{Type: ErrorTypeInput}))
	assert.False(t, errors.Is(appErr, &AppError{Type: ErrorTypeOutput}))
	assert.True(t, errors.Is(appErr, ErrFileNotFound))
}

func TestConstructors(t *testing.T) {
	inner := errors.New("boom")
	tests := []struct {
		err      *AppError
		expected ErrorType
	}{
		{NewInputError("m", inner), ErrorTypeInput},
		{NewParsingError("m", inner), ErrorTypeParsing},
		{NewGenerateError("m", inner), ErrorTypeGenerate},
		{NewFormatError("m", inner), ErrorTypeFormat},
		{NewOutputError("m", inner), ErrorTypeOutput},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Type)
			assert.Equal(t, "m", tt.err.Message)
			assert.Equal(t, inner, tt.err.Err)
		})
	}
}

func TestLexError(t *testing.T) {
	err := NewLexError(3, 7, "@", ErrUnexpectedChar)

	assert.Equal(t, `lex error at 3:7: unexpected character "@"`, err.Error())
	assert.True(t, errors.Is(err, ErrUnexpectedChar))
	assert.Equal(t, Diagnostic{Line: 3, Column: 7, Message: `unexpected character "@"`}, err.Diagnostic())
}

func TestParseError(t *testing.T) {
	err := NewParseError(1, 9, "field", "}", ErrTrailingComma)

	assert.Equal(t, "parse error at 1:9: trailing comma: expected field, found }", err.Error())
	assert.True(t, errors.Is(err, ErrTrailingComma))
	assert.False(t, errors.Is(err, ErrExpectedString))

	d := err.Diagnostic()
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 9, d.Column)
	assert.Equal(t, "1:9: trailing comma: expected field, found }", d.String())
}

func TestAsDiagnostic(t *testing.T) {
	wrapped := fmt.Errorf("generation failed: %w", NewParseError(2, 4, "", "", ErrEmptyRecord))

	d, ok := AsDiagnostic(wrapped)
	require.True(t, ok)
	assert.Equal(t, Diagnostic{Line: 2, Column: 4, Message: "empty object"}, d)

	_, ok = AsDiagnostic(errors.New("plain"))
	assert.False(t, ok)
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write", nil),
			expected: "Output error: failed to write",
		},
		{
			name:     "diagnostic wins over app error",
			err:      NewParsingError("bad json", NewLexError(1, 2, "", ErrUnterminatedString)),
			expected: "JSON error at 1:2: unterminated string",
		},
		{
			name:     "standard sentinel",
			err:      ErrNoInput,
			expected: "Error: No input provided. Please specify an input file or pipe JSON data to stdin.",
		},
		{
			name:     "unknown error",
			err:      errors.New("mystery"),
			expected: "Error: mystery",
		},
		{
			name:     "hint is appended",
			err:      WithHint(NewInputError("no such file", ErrFileNotFound), "check the path"),
			expected: "Input error: no such file\nHint: check the path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserFriendlyError(tt.err))
		})
	}
}
