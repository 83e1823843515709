package models

// Scalar type references, rendered as the C# built-in type names.
const (
	Int      = "int"
	Long     = "long"
	Double   = "double"
	Bool     = "bool"
	String   = "string"
	DateTime = "DateTime"
	Object   = "object"
)

// KeyedCollectionContainer is the container used for integer-keyed objects.
const KeyedCollectionContainer = "IReadOnlyDictionary"

// frameworkTypes are referenced by simple name in generated files. A generated
// class with one of these names would hide the imported type.
var frameworkTypes = map[string]bool{
	DateTime:                 true,
	"IEnumerable":            true,
	"IReadOnlyList":          true,
	KeyedCollectionContainer: true,
	"DataContract":           true,
	"DataContractAttribute":  true,
	"DataMember":             true,
	"DataMemberAttribute":    true,
}

// IsFrameworkType reports whether name is a type the generated code refers to.
func IsFrameworkType(name string) bool {
	return frameworkTypes[name]
}

// Field is one member of a record: the original JSON key and its type reference.
type Field struct {
	JSONKey string
	Type    string
}

// SameFields reports whether two field lists are identical, order included.
func SameFields(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// KeyedCollectionType renders the type reference of an integer-keyed collection.
func KeyedCollectionType(element string) string {
	return KeyedCollectionContainer + "<int, " + element + ">"
}
