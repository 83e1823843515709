package lexer

import "github.com/mcncl/jsontocs/internal/source"

// Kind represents the type of token identified by the lexer.
type Kind uint8

const (
	KindEOF Kind = iota
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket
	KindColon
	KindComma
	KindString
	KindNumber
	KindBoolean
)

var kindNames = [...]string{
	KindEOF:      "end of input",
	KindLBrace:   "{",
	KindRBrace:   "}",
	KindLBracket: "[",
	KindRBracket: "]",
	KindColon:    ":",
	KindComma:    ",",
	KindString:   "string",
	KindNumber:   "number",
	KindBoolean:  "boolean",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is a lexical unit. Text holds the raw literal; string tokens carry
// their contents without the surrounding quotes and without escape decoding.
type Token struct {
	Kind Kind
	Text string
	Pos  source.Position
}

// Describe renders the token for diagnostics.
func (t Token) Describe() string {
	switch t.Kind {
	case KindString:
		return "string \"" + t.Text + "\""
	case KindNumber, KindBoolean:
		return t.Kind.String() + " " + t.Text
	default:
		return t.Kind.String()
	}
}

var punctuation = map[rune]Kind{
	'{': KindLBrace,
	'}': KindRBrace,
	'[': KindLBracket,
	']': KindRBracket,
	':': KindColon,
	',': KindComma,
}

var identifiers = map[string]Kind{
	"true":  KindBoolean,
	"false": KindBoolean,
}
