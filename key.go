package graft

import (
	"fmt"
	"reflect"

	ireflect "github.com/graftwire/graft/internal/reflect"
)

// Qualifier distinguishes multiple bindings of the same type. Implementations
// must be comparable values: qualifiers take part in map keys, and equality
// is value equality.
type Qualifier interface {
	String() string
}

// Named is the built-in string qualifier.
type Named string

func (n Named) String() string {
	return fmt.Sprintf("Named(%q)", string(n))
}

// Key identifies a binding slot: a type plus an optional qualifier. Keys are
// comparable; two keys are equal iff both type and qualifier compare equal.
type Key struct {
	Type      reflect.Type
	Qualifier Qualifier
}

// KeyOf returns the unqualified Key for T.
func KeyOf[T any]() Key {
	return Key{Type: ireflect.TypeOf[T]()}
}

// NamedKey returns the Key for T qualified by name.
func NamedKey[T any](name string) Key {
	return Key{Type: ireflect.TypeOf[T](), Qualifier: Named(name)}
}

// KeyFor builds a Key from a reflect.Type, rejecting a nil type.
func KeyFor(t reflect.Type, q Qualifier) (Key, error) {
	if t == nil {
		return Key{}, errInvalidBinding("key type must be a non-nil type")
	}
	return Key{Type: t, Qualifier: q}, nil
}

func (k Key) String() string {
	if k.Qualifier == nil {
		return fmt.Sprintf("Key(%s)", ireflect.TypeName(k.Type))
	}
	return fmt.Sprintf("Key(%s, %s)", ireflect.TypeName(k.Type), k.Qualifier)
}

// typeKey is the unqualified Key used for plain type lookups.
func typeKey(t reflect.Type) Key {
	return Key{Type: t}
}
