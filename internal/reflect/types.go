package reflect

import (
	"reflect"
	"strconv"
	"sync"
)

var typeNameCache sync.Map

// TypeOf returns the reflect.Type for T. Unlike reflect.TypeOf on a zero
// value, it also works when T is an interface type.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TypeName renders a stable, human-readable name for t. Results are cached
// since the same types are formatted over and over in errors and dumps.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := typeNameCache.Load(t); ok {
		return cached.(string)
	}

	name := buildTypeName(t)
	typeNameCache.Store(t, name)
	return name
}

func buildTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildTypeName(t.Elem())
	case reflect.Slice:
		return "[]" + buildTypeName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildTypeName(t.Elem())
	case reflect.Map:
		return "map[" + buildTypeName(t.Key()) + "]" + buildTypeName(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildTypeName(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildTypeName(t.Elem())
		default:
			return "chan " + buildTypeName(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.String()
	}
}

// IsNil reports whether v is nil, including typed nils inside interfaces.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// Injectable reports whether a parameter or field of type t can carry a
// binding at all. Everything else (strings, numerics, raw collections, ...)
// is treated as a plain value the resolver must not touch.
func Injectable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Struct, reflect.Ptr:
		return true
	default:
		return false
	}
}

// Implements reports whether t, or a pointer to t, implements iface, and
// returns the form that does.
func Implements(t, iface reflect.Type) (reflect.Type, bool) {
	if iface.Kind() != reflect.Interface {
		return nil, false
	}
	if t.Implements(iface) {
		return t, true
	}
	if t.Kind() != reflect.Ptr {
		if pt := reflect.PointerTo(t); pt.Implements(iface) {
			return pt, true
		}
	}
	return nil, false
}
