package graft

import (
	"reflect"
	"strings"
)

const modulePath = "github.com/graftwire/graft"

// Optional wraps a dependency that may be absent. Fields are exported so
// the resolver can populate Optional-typed injection sites reflectively;
// prefer the accessors in application code.
type Optional[T any] struct {
	V  T
	OK bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{V: v, OK: true}
}

// None is the absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.V, o.OK
}

// Value returns the value, zero when absent.
func (o Optional[T]) Value() T {
	return o.V
}

// Present reports whether a value is present.
func (o Optional[T]) Present() bool {
	return o.OK
}

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.OK {
		return o.V
	}
	return def
}

// OrElseFunc returns the value, or fn's result when absent.
func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.OK {
		return o.V
	}
	return fn()
}

// optionalElem reports whether t is an instantiation of Optional and
// returns its element type.
func optionalElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct || t.PkgPath() != modulePath {
		return nil, false
	}
	if !strings.HasPrefix(t.Name(), "Optional[") {
		return nil, false
	}
	if t.NumField() != 2 || t.Field(1).Type.Kind() != reflect.Bool {
		return nil, false
	}
	return t.Field(0).Type, true
}
