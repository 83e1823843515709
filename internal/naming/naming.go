// Package naming derives C# type, property and parameter names from JSON keys.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

const (
	wordSeparator = "_"
	entrySuffix   = "Entry"
	valueSuffix   = "Value"
	fallbackName  = "Field"
)

// CSharpKeywords are the identifiers C# reserves.
var CSharpKeywords = []string{
	"abstract", "as", "base", "bool", "break", "byte", "case", "catch",
	"char", "checked", "class", "const", "continue", "decimal", "default",
	"delegate", "do", "double", "else", "enum", "event", "explicit", "extern",
	"false", "finally", "fixed", "float", "for", "foreach", "goto", "if",
	"implicit", "in", "int", "interface", "internal", "is", "lock", "long",
	"namespace", "new", "null", "object", "operator", "out", "override",
	"params", "private", "protected", "public", "readonly", "ref", "return",
	"sbyte", "sealed", "short", "sizeof", "stackalloc", "static", "string",
	"struct", "switch", "this", "throw", "true", "try", "typeof", "uint",
	"ulong", "unchecked", "unsafe", "ushort", "using", "virtual", "void",
	"volatile", "while",
}

// Default resolves names against the C# keyword table.
var Default = NewResolver(CSharpKeywords)

// Resolver renames identifiers that collide with a fixed set of reserved words.
// It is immutable once built.
type Resolver struct {
	reserved map[string]struct{}
}

// NewResolver builds a Resolver over the given reserved words.
func NewResolver(words []string) *Resolver {
	reserved := make(map[string]struct{}, len(words))
	for _, w := range words {
		reserved[w] = struct{}{}
	}
	return &Resolver{reserved: reserved}
}

// IsReserved reports whether name is a reserved word.
func (r *Resolver) IsReserved(name string) bool {
	_, ok := r.reserved[name]
	return ok
}

// ParameterName returns the constructor parameter name for a JSON key.
// Keys are used verbatim unless they are reserved or not valid identifiers.
func (r *Resolver) ParameterName(key string) string {
	if r.IsReserved(key) {
		return ToTypeName(key)
	}
	if !IsIdentifier(key) {
		name := key
		if !isWord(key) {
			name = strcase.ToLowerCamel(key)
		}
		if name == "" || startsWithDigit(name) {
			name = "_" + name
		}
		if r.IsReserved(name) {
			return ToTypeName(name)
		}
		return name
	}
	return key
}

// PropertyName returns the accessor name for a JSON key inside typeName.
func (r *Resolver) PropertyName(key, typeName string) string {
	name := ToTypeName(key)
	if name == typeName {
		return name + valueSuffix
	}
	return name
}

// ToTypeName splits key on underscores and upper-cases the first letter of
// each segment, keeping the rest. Segments holding other punctuation are
// camel-cased; a key with no usable characters becomes "Field".
func ToTypeName(key string) string {
	if key == "" {
		return key
	}

	var sb strings.Builder
	for _, segment := range strings.Split(key, wordSeparator) {
		if segment == "" {
			continue
		}
		if !isWord(segment) {
			segment = strcase.ToCamel(segment)
		}
		if segment != "" {
			sb.WriteString(upperFirst(segment))
		}
	}

	name := sb.String()
	if name == "" {
		return fallbackName
	}
	if startsWithDigit(name) {
		name = "_" + name
	}
	return name
}

// ElementName names the element type of an array or keyed collection held
// by key: one trailing "s" is stripped, otherwise "Entry" is appended.
func ElementName(key string) string {
	name := ToTypeName(key)
	if strings.HasSuffix(name, "s") && len(name) > 1 {
		return strings.TrimSuffix(name, "s")
	}
	return name + entrySuffix
}

// IsIdentifier reports whether s is a valid C# identifier: letters, digits
// and underscores, not starting with a digit.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func startsWithDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}
