// Package analyzer infers C# record types from a JSON token stream in a
// single pass and registers the generated source for each one.
package analyzer

import (
	"fmt"

	"github.com/mcncl/jsontocs/internal/errors"
	"github.com/mcncl/jsontocs/internal/generator"
	"github.com/mcncl/jsontocs/internal/lexer"
	"github.com/mcncl/jsontocs/internal/models"
	"github.com/mcncl/jsontocs/internal/naming"
	"github.com/mcncl/jsontocs/internal/source"
)

// DefaultRootName is the default name for the root class if not specified.
const DefaultRootName = "RootType"

// Analyzer holds the options shared by every Create call. It keeps no state
// between calls, so one Analyzer may be used concurrently.
type Analyzer struct {
	opts  generator.Options
	names *naming.Resolver
}

// NewAnalyzer creates an Analyzer using the C# reserved word table.
func NewAnalyzer(opts generator.Options) *Analyzer {
	return NewAnalyzerWithResolver(opts, naming.Default)
}

// NewAnalyzerWithResolver creates an Analyzer with a custom name resolver.
func NewAnalyzerWithResolver(opts generator.Options, names *naming.Resolver) *Analyzer {
	return &Analyzer{opts: opts, names: names}
}

// Create reads one JSON document from src and returns every record type it
// implies, root first.
func Create(rootTypeName string, src source.Source, opts generator.Options) (*Registry, error) {
	return NewAnalyzer(opts).Create(rootTypeName, src)
}

// Create reads one JSON document from src and returns every record type it
// implies, root first. On error no partial registry is returned.
func (a *Analyzer) Create(rootTypeName string, src source.Source) (*Registry, error) {
	if rootTypeName == "" {
		rootTypeName = DefaultRootName
	}

	lx, err := lexer.New(src)
	if err != nil {
		return nil, err
	}

	r := &run{
		lx:       lx,
		gen:      generator.NewGeneratorWithResolver(a.opts, a.names),
		names:    a.names,
		opts:     a.opts,
		registry: newRegistry(),
	}

	first := lx.Current()
	if first.Kind == lexer.KindEOF {
		return nil, parseError(first, "{", errors.ErrEmptyInput)
	}
	_, isRecord, err := r.createEntry(rootTypeName)
	if err != nil {
		return nil, err
	}
	if !isRecord {
		return nil, errors.NewParseError(first.Pos.Line, first.Pos.Column, "object with named keys", "keyed collection", errors.ErrKeyedRoot)
	}

	if tok := lx.Current(); tok.Kind != lexer.KindEOF {
		return nil, parseError(tok, lexer.KindEOF.String(), errors.ErrTrailingData)
	}
	return r.registry, nil
}

// run is the state of a single Create call.
type run struct {
	lx       *lexer.Lexer
	gen      *generator.Generator
	names    *naming.Resolver
	opts     generator.Options
	registry *Registry
}

// createEntry consumes an object and returns the type reference for it. An
// object whose first key is numeric is a keyed collection and is not
// registered; isRecord reports which of the two was found.
func (r *run) createEntry(candidate string) (typeRef string, isRecord bool, err error) {
	tok := r.lx.Current()
	if tok.Kind != lexer.KindLBrace {
		return "", false, parseError(tok, "{", errors.ErrExpectedObject)
	}
	if err := r.lx.Advance(); err != nil {
		return "", false, err
	}

	tok = r.lx.Current()
	switch {
	case tok.Kind == lexer.KindRBrace:
		return "", false, parseError(tok, "string key", errors.ErrEmptyRecord)
	case isCollectionKey(tok):
		typeRef, err := r.keyedCollection(candidate)
		return typeRef, false, err
	}

	typeRef, err = r.record(candidate)
	return typeRef, true, err
}

// record reads key/value pairs up to the closing brace. The registry slot is
// taken before any nested value is read so that outer types precede inner ones.
func (r *run) record(candidate string) (string, error) {
	base := naming.ToTypeName(candidate)
	slot := r.registry.reserve(base)

	var fields []models.Field
	keys := make(map[string]bool)
	props := make(map[string]string)

	for {
		tok := r.lx.Current()
		if tok.Kind != lexer.KindString {
			return "", parseError(tok, "string key", errors.ErrExpectedString)
		}
		key := tok.Text
		if key == "" {
			return "", parseError(tok, "non-empty key", errors.ErrEmptyKey)
		}
		if keys[key] {
			return "", parseError(tok, "unique key", errors.ErrDuplicateKey)
		}
		prop := r.names.PropertyName(key, slot.Name)
		if other, ok := props[prop]; ok {
			found := fmt.Sprintf("%q, which maps to %s like %q", key, prop, other)
			return "", errors.NewParseError(tok.Pos.Line, tok.Pos.Column, "unique property name", found, errors.ErrDuplicateKey)
		}
		keys[key] = true
		props[prop] = key

		if err := r.lx.Advance(); err != nil {
			return "", err
		}
		if err := r.lx.Expect(lexer.KindColon); err != nil {
			return "", err
		}

		typeRef, err := r.value(key, key)
		if err != nil {
			return "", err
		}
		fields = append(fields, models.Field{JSONKey: key, Type: typeRef})

		done, err := r.separator()
		if err != nil {
			return "", err
		}
		if done {
			break
		}
	}

	return r.finalize(slot, base, fields)
}

// finalize reuses an identical earlier record of the same base name, or
// renders the record into its reserved slot.
func (r *run) finalize(slot *Entry, base string, fields []models.Field) (string, error) {
	if existing := r.registry.match(base, fields); existing != nil {
		r.registry.release(slot)
		return existing.Name, nil
	}

	src, err := r.gen.Emit(slot.Name, fields)
	if err != nil {
		return "", errors.NewGenerateError(fmt.Sprintf("failed to render %s", slot.Name), err)
	}
	r.registry.fill(slot, fields, src)
	return slot.Name, nil
}

// keyedCollection infers the element type from the first entry and skips
// the remaining siblings without inspecting them.
func (r *run) keyedCollection(candidate string) (string, error) {
	if err := r.lx.Advance(); err != nil {
		return "", err
	}
	if err := r.lx.Expect(lexer.KindColon); err != nil {
		return "", err
	}

	element := naming.ElementName(candidate)
	elemType, err := r.value(element, element)
	if err != nil {
		return "", err
	}

	for {
		done, err := r.separator()
		if err != nil {
			return "", err
		}
		if done {
			return models.KeyedCollectionType(elemType), nil
		}
		if err := r.skipEntry(); err != nil {
			return "", err
		}
	}
}

// separator consumes the token after a member: a comma (done is false) or
// the closing brace (done is true).
func (r *run) separator() (done bool, err error) {
	tok := r.lx.Current()
	switch tok.Kind {
	case lexer.KindComma:
		if err := r.lx.Advance(); err != nil {
			return false, err
		}
		if next := r.lx.Current(); next.Kind == lexer.KindRBrace {
			return false, parseError(next, "string key", errors.ErrTrailingComma)
		}
		return false, nil
	case lexer.KindRBrace:
		return true, r.lx.Advance()
	default:
		return false, parseError(tok, ", or }", errors.ErrExpectedToken)
	}
}

// value dispatches on the current token. key names the enclosing member and
// candidate is the type name a nested object would receive.
func (r *run) value(key, candidate string) (string, error) {
	tok := r.lx.Current()
	switch tok.Kind {
	case lexer.KindString, lexer.KindNumber, lexer.KindBoolean:
		typeRef, err := scalarType(tok)
		if err != nil {
			return "", err
		}
		return typeRef, r.lx.Advance()
	case lexer.KindLBrace:
		typeRef, _, err := r.createEntry(candidate)
		return typeRef, err
	case lexer.KindLBracket:
		return r.array(key)
	default:
		return "", parseError(tok, "value", errors.ErrUnexpectedValue)
	}
}

// array types a list by its first element. The rest are skipped.
func (r *run) array(key string) (string, error) {
	if err := r.lx.Advance(); err != nil {
		return "", err
	}
	if r.lx.Current().Kind == lexer.KindRBracket {
		return r.opts.ListKind.ListType(models.Object), r.lx.Advance()
	}

	element := naming.ElementName(key)
	elemType, err := r.value(element, element)
	if err != nil {
		return "", err
	}
	if err := r.skipElements(); err != nil {
		return "", err
	}
	return r.opts.ListKind.ListType(elemType), nil
}

// skipEntry skips one keyed collection member, stopping before the comma or
// closing brace that ends it.
func (r *run) skipEntry() error {
	depth := 0
	for {
		tok := r.lx.Current()
		switch tok.Kind {
		case lexer.KindEOF:
			return parseError(tok, "}", errors.ErrUnexpectedEOF)
		case lexer.KindLBrace, lexer.KindLBracket:
			depth++
		case lexer.KindRBrace, lexer.KindRBracket:
			if depth == 0 {
				if tok.Kind == lexer.KindRBracket {
					return parseError(tok, ", or }", errors.ErrExpectedToken)
				}
				return nil
			}
			depth--
		case lexer.KindComma:
			if depth == 0 {
				return nil
			}
		}
		if err := r.lx.Advance(); err != nil {
			return err
		}
	}
}

// skipElements skips the remaining array elements and consumes the closing bracket.
func (r *run) skipElements() error {
	depth := 0
	for {
		tok := r.lx.Current()
		switch tok.Kind {
		case lexer.KindEOF:
			return parseError(tok, "]", errors.ErrUnexpectedEOF)
		case lexer.KindLBrace, lexer.KindLBracket:
			depth++
		case lexer.KindRBracket, lexer.KindRBrace:
			if depth == 0 {
				if tok.Kind == lexer.KindRBrace {
					return parseError(tok, ", or ]", errors.ErrExpectedToken)
				}
				return r.lx.Advance()
			}
			depth--
		}
		if err := r.lx.Advance(); err != nil {
			return err
		}
	}
}

func parseError(tok lexer.Token, expected string, err error) error {
	return errors.NewParseError(tok.Pos.Line, tok.Pos.Column, expected, tok.Describe(), err)
}
