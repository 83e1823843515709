package analyzer

import (
	"fmt"

	"github.com/mcncl/jsontocs/internal/models"
)

// Entry is one generated class: its name, fields and rendered source.
type Entry struct {
	Name   string
	Fields []models.Field
	Source string

	base   string
	filled bool
}

// Registry maps generated type names to their source text. Iteration order
// is discovery order: a record's slot is taken when its opening brace is
// read, so the root comes first and nested types follow depth-first.
type Registry struct {
	entries []*Entry
	byName  map[string]*Entry
}

func newRegistry() *Registry {
	return &Registry{byName: make(map[string]*Entry)}
}

// Len returns the number of generated types.
func (r *Registry) Len() int {
	n := 0
	for _, e := range r.entries {
		if e.filled {
			n++
		}
	}
	return n
}

// Names returns the generated type names in discovery order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		if e.filled {
			names = append(names, e.Name)
		}
	}
	return names
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.byName[name]
	if !ok || !e.filled {
		return Entry{}, false
	}
	return *e, true
}

// Source returns the source text registered under name, or "".
func (r *Registry) Source(name string) string {
	e, _ := r.Get(name)
	return e.Source
}

// Entries returns copies of all entries in discovery order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.filled {
			out = append(out, *e)
		}
	}
	return out
}

// Map returns the registry as a plain name to source map.
func (r *Registry) Map() map[string]string {
	out := make(map[string]string, len(r.entries))
	for _, e := range r.entries {
		if e.filled {
			out[e.Name] = e.Source
		}
	}
	return out
}

// reserve claims the first free name among base, base1, base2, ... and
// appends an unfilled slot for it. Names of types the generated code refers
// to are never free.
func (r *Registry) reserve(base string) *Entry {
	name := base
	for i := 1; r.byName[name] != nil || models.IsFrameworkType(name); i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	e := &Entry{Name: name, base: base}
	r.entries = append(r.entries, e)
	r.byName[name] = e
	return e
}

// release drops an unfilled slot and frees its name.
func (r *Registry) release(slot *Entry) {
	delete(r.byName, slot.Name)
	for i, e := range r.entries {
		if e == slot {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// match finds a filled entry derived from the same base name with identical fields.
func (r *Registry) match(base string, fields []models.Field) *Entry {
	for _, e := range r.entries {
		if e.filled && e.base == base && models.SameFields(e.Fields, fields) {
			return e
		}
	}
	return nil
}

func (r *Registry) fill(slot *Entry, fields []models.Field, src string) {
	slot.Fields = fields
	slot.Source = src
	slot.filled = true
}
