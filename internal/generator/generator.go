package generator

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsontocs/internal/models"
	"github.com/mcncl/jsontocs/internal/naming"
)

const indent = "    "

const (
	usingSystem        = "System"
	usingCollections   = "System.Collections.Generic"
	usingSerialization = "System.Runtime.Serialization"
)

// Generator renders immutable C# classes from discovered records.
type Generator struct {
	opts  Options
	names *naming.Resolver
}

// NewGenerator creates a Generator using the C# reserved word table.
func NewGenerator(opts Options) *Generator {
	return NewGeneratorWithResolver(opts, naming.Default)
}

// NewGeneratorWithResolver creates a Generator with a custom name resolver.
func NewGeneratorWithResolver(opts Options, names *naming.Resolver) *Generator {
	return &Generator{opts: opts, names: names}
}

// Emit renders the complete source file for one class.
func (g *Generator) Emit(name string, fields []models.Field) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("class %s has no fields", name)
	}

	w := newCodeWriter(indent)

	usings := g.Usings(fields)
	for _, u := range usings {
		w.WriteLinef("using %s;", u)
	}
	if len(usings) > 0 {
		w.BlankLine()
	}

	if g.opts.Namespace != "" {
		w.WriteLinef("namespace %s", g.opts.Namespace)
		w.WriteBlock("{", "}", func() {
			g.writeClass(w, name, fields)
		})
		return w.String(), nil
	}

	g.writeClass(w, name, fields)
	return w.String(), nil
}

func (g *Generator) writeClass(w *codeWriter, name string, fields []models.Field) {
	if g.opts.DeclareDataMember {
		w.WriteLine("[DataContract]")
	}
	w.WriteLinef("public class %s", name)
	w.WriteBlock("{", "}", func() {
		g.writeConstructor(w, name, fields)
		w.BlankLine()
		for _, f := range fields {
			if g.opts.DeclareDataMember {
				w.WriteLinef("[DataMember(Name = \"%s\")]", wireName(f.JSONKey))
			}
			w.WriteLinef("public %s %s { get; }", f.Type, g.names.PropertyName(f.JSONKey, name))
		}
	})
}

func (g *Generator) writeConstructor(w *codeWriter, name string, fields []models.Field) {
	w.WriteLinef("public %s(", name)
	w.Indent()
	for i, f := range fields {
		sep := ","
		if i == len(fields)-1 {
			sep = ")"
		}
		w.WriteLinef("%s %s%s", f.Type, g.names.ParameterName(f.JSONKey), sep)
	}
	w.Dedent()
	w.WriteBlock("{", "}", func() {
		for _, f := range fields {
			w.WriteLinef("this.%s = %s;", g.names.PropertyName(f.JSONKey, name), g.names.ParameterName(f.JSONKey))
		}
	})
}

// Usings returns the namespaces a class with these fields must import, in
// declaration order.
func (g *Generator) Usings(fields []models.Field) []string {
	var needsSystem, needsCollections bool
	for _, f := range fields {
		for _, ident := range typeIdentifiers(f.Type) {
			switch ident {
			case models.DateTime:
				needsSystem = true
			case g.opts.ListKind.Container(), models.KeyedCollectionContainer:
				needsCollections = true
			}
		}
	}

	var usings []string
	if needsSystem {
		usings = append(usings, usingSystem)
	}
	if needsCollections {
		usings = append(usings, usingCollections)
	}
	if g.opts.DeclareDataMember {
		usings = append(usings, usingSerialization)
	}
	return usings
}

// typeIdentifiers splits a type reference such as IEnumerable<IReadOnlyDictionary<int, Tag>>
// into its identifiers.
func typeIdentifiers(typeRef string) []string {
	return strings.FieldsFunc(typeRef, func(r rune) bool {
		return r == '<' || r == '>' || r == ',' || r == ' '
	})
}

// wireName makes a raw JSON key usable inside a C# string literal. JSON
// escapes are kept as-is except \/, which C# does not accept.
func wireName(key string) string {
	if !strings.Contains(key, `\/`) {
		return key
	}
	var sb strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '\\' && i+1 < len(key) {
			i++
			if key[i] != '/' {
				sb.WriteByte(c)
			}
			sb.WriteByte(key[i])
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
