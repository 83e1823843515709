package analyzer

import (
	"strconv"
	"time"

	"github.com/mcncl/jsontocs/internal/errors"
	"github.com/mcncl/jsontocs/internal/lexer"
	"github.com/mcncl/jsontocs/internal/models"
)

// dateLayouts are tried in order; a string matching any of them is a DateTime.
// Parsing accepts fractional seconds after the seconds field even when the
// layout omits them.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	time.RFC1123,
	time.RFC1123Z,
	"15:04:05",
	"15:04",
}

// scalarType maps a scalar token to its C# type.
func scalarType(tok lexer.Token) (string, error) {
	switch tok.Kind {
	case lexer.KindString:
		if isDate(tok.Text) {
			return models.DateTime, nil
		}
		return models.String, nil
	case lexer.KindBoolean:
		return models.Bool, nil
	case lexer.KindNumber:
		return numberType(tok)
	}
	return "", parseError(tok, "scalar", errors.ErrUnexpectedValue)
}

// numberType picks the narrowest of int, long and double that holds the literal.
func numberType(tok lexer.Token) (string, error) {
	if _, err := strconv.ParseInt(tok.Text, 10, 32); err == nil {
		return models.Int, nil
	}
	if _, err := strconv.ParseInt(tok.Text, 10, 64); err == nil {
		return models.Long, nil
	}
	if _, err := strconv.ParseFloat(tok.Text, 64); err == nil {
		return models.Double, nil
	}
	return "", parseError(tok, "number", errors.ErrInvalidNumber)
}

func isDate(s string) bool {
	if len(s) < len("15:04") {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// isCollectionKey reports whether the first key of an object marks it as a
// keyed collection: a number, or a string holding an integer.
func isCollectionKey(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.KindNumber:
		return true
	case lexer.KindString:
		_, err := strconv.ParseInt(tok.Text, 10, 64)
		return err == nil
	}
	return false
}
