package reflect

import (
	"fmt"
	"reflect"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Factory is an introspected constructor function: zero or more parameters,
// returning exactly one value, or a value and an error.
type Factory struct {
	fn     reflect.Value
	Params []reflect.Type
	Out    reflect.Type
	HasErr bool
}

// NewFactory validates and introspects a constructor function.
func NewFactory(fn any) (*Factory, error) {
	if fn == nil {
		return nil, fmt.Errorf("factory must be a function, got nil")
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("factory must be a function, got %s", TypeName(t))
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("factory %s must not be variadic", t)
	}

	switch t.NumOut() {
	case 1:
		if t.Out(0) == errType {
			return nil, fmt.Errorf("factory %s must return a value, not only an error", t)
		}
	case 2:
		if t.Out(1) != errType {
			return nil, fmt.Errorf("factory %s second return value must be error, got %s", t, t.Out(1))
		}
	default:
		return nil, fmt.Errorf("factory %s must return exactly one value, or a value and an error", t)
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	return &Factory{
		fn:     v,
		Params: params,
		Out:    t.Out(0),
		HasErr: t.NumOut() == 2,
	}, nil
}

// Signature returns the factory's function type, for diagnostics.
func (f *Factory) Signature() string {
	return f.fn.Type().String()
}

// Call invokes the factory with fully resolved arguments.
func (f *Factory) Call(args []reflect.Value) (any, error) {
	results := f.fn.Call(args)
	if f.HasErr && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// ProviderShape matches parameter types of the form func() T or
// func() (T, error) and reports the produced type.
func ProviderShape(t reflect.Type) (elem reflect.Type, hasErr bool, ok bool) {
	if t.Kind() != reflect.Func || t.IsVariadic() || t.NumIn() != 0 {
		return nil, false, false
	}
	switch t.NumOut() {
	case 1:
		if t.Out(0) == errType {
			return nil, false, false
		}
		return t.Out(0), false, true
	case 2:
		if t.Out(1) != errType || t.Out(0) == errType {
			return nil, false, false
		}
		return t.Out(0), true, true
	default:
		return nil, false, false
	}
}
