package generator

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsontocs/internal/errors"
)

// ListKind selects the generic container used for every JSON array.
type ListKind int

const (
	// ForwardOnlySequence renders arrays as IEnumerable<T>.
	ForwardOnlySequence ListKind = iota
	// IndexableReadOnlyList renders arrays as IReadOnlyList<T>.
	IndexableReadOnlyList
)

var listContainers = map[ListKind]string{
	ForwardOnlySequence:   "IEnumerable",
	IndexableReadOnlyList: "IReadOnlyList",
}

var listKindNames = map[ListKind]string{
	ForwardOnlySequence:   "ForwardOnlySequence",
	IndexableReadOnlyList: "IndexableReadOnlyList",
}

func (k ListKind) String() string {
	if name, ok := listKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ListKind(%d)", int(k))
}

// Container returns the C# generic type name for the list kind.
func (k ListKind) Container() string {
	if c, ok := listContainers[k]; ok {
		return c
	}
	return listContainers[ForwardOnlySequence]
}

// ListType renders a list of elem, e.g. IEnumerable<string>.
func (k ListKind) ListType(elem string) string {
	return k.Container() + "<" + elem + ">"
}

// ParseListKind accepts either the kind name or the container name, case-insensitively.
// An empty string yields the default.
func ParseListKind(s string) (ListKind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ForwardOnlySequence, nil
	}
	for _, kind := range []ListKind{ForwardOnlySequence, IndexableReadOnlyList} {
		if strings.EqualFold(s, kind.String()) || strings.EqualFold(s, kind.Container()) {
			return kind, nil
		}
	}
	return ForwardOnlySequence, fmt.Errorf("%w: list type %q (want IEnumerable or IReadOnlyList)", errors.ErrInvalidOption, s)
}

// Options controls how classes are rendered. Only the emitter and, for list
// naming, the analyzer read it.
type Options struct {
	// Namespace wraps every class in a namespace block when non-empty.
	Namespace string
	// DeclareDataMember annotates each property with its JSON key.
	DeclareDataMember bool
	// ListKind selects the list container.
	ListKind ListKind
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{ListKind: ForwardOnlySequence}
}
