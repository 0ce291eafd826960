package graft

import (
	"fmt"
	"reflect"

	ireflect "github.com/graftwire/graft/internal/reflect"
)

var (
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
	emptyStructType = reflect.TypeOf(struct{}{})
	injectorType    = reflect.TypeOf((*Injector)(nil))
)

// Override supplies a dependency for the top-level resolution target,
// bypassing the binding tables. Overrides do not propagate to transitive
// dependencies.
type Override struct {
	name  string
	value any
}

// Field overrides the struct field with the given name.
func Field(name string, value any) Override {
	return Override{name: name, value: value}
}

// Value overrides the first parameter or field the value is assignable to.
func Value(value any) Override {
	return Override{value: value}
}

type typedOverride struct {
	value reflect.Value
	used  bool
}

type overrideSet struct {
	byName map[string]any
	typed  []typedOverride
}

func newOverrideSet(overrides []Override) *overrideSet {
	if len(overrides) == 0 {
		return &overrideSet{}
	}
	ov := &overrideSet{byName: make(map[string]any)}
	for _, o := range overrides {
		if o.name != "" {
			ov.byName[o.name] = o.value
			continue
		}
		ov.typed = append(ov.typed, typedOverride{value: reflect.ValueOf(o.value)})
	}
	return ov
}

func (ov *overrideSet) forField(name string) (any, bool) {
	v, ok := ov.byName[name]
	return v, ok
}

func (ov *overrideSet) forType(t reflect.Type) (reflect.Value, bool) {
	for i := range ov.typed {
		o := &ov.typed[i]
		if o.used || !o.value.IsValid() {
			continue
		}
		if o.value.Type().AssignableTo(t) {
			o.used = true
			return o.value, true
		}
	}
	return reflect.Value{}, false
}

// member is one injection site: a struct field or a factory parameter.
type member struct {
	what     string
	owner    string
	typ      reflect.Type
	name     string
	named    string
	optional bool
}

func (in *Injector) instantiateRegistration(rc *resolution, key Key, reg *Registration, overrides []Override) (any, error) {
	if reg.Factory != nil {
		return in.callFactory(rc, key, reg.Factory, overrides)
	}
	return in.instantiateType(rc, reg.Type, overrides)
}

// instantiateType builds a fresh value of t, resolving its injectable
// fields. A pointer type yields a pointer to the populated struct.
func (in *Injector) instantiateType(rc *resolution, t reflect.Type, overrides []Override) (any, error) {
	if t == nil {
		return nil, errInvalidBinding("cannot construct a nil type")
	}

	base := t
	ptr := false
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
		ptr = true
	}
	if base.Kind() == reflect.Interface {
		return nil, errNoBinding(typeKey(t))
	}
	if base.Kind() != reflect.Struct {
		return nil, errInvalidBinding(fmt.Sprintf(
			"cannot construct %s: not a struct or pointer to struct", ireflect.TypeName(t),
		))
	}

	fields, err := ireflect.StructFields(base, TagKey)
	if err != nil {
		return nil, errInvalidBinding(err.Error())
	}

	ov := newOverrideSet(overrides)
	val := reflect.New(base)
	elem := val.Elem()
	owner := ireflect.TypeName(base)

	for _, f := range fields {
		fv := elem.Field(f.Index)
		if !fv.CanSet() {
			continue
		}

		m := member{
			what:     fmt.Sprintf("field %s (%s)", f.Name, ireflect.TypeName(f.Type)),
			owner:    owner,
			typ:      f.Type,
			name:     f.Name,
			named:    f.Named,
			optional: f.Optional,
		}
		v, ok, err := in.resolveMember(rc, m, ov)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			continue
		}
		if !rv.Type().AssignableTo(f.Type) {
			return nil, errInvalidBinding(fmt.Sprintf(
				"cannot assign %s to %s of %s", ireflect.TypeName(rv.Type()), m.what, owner,
			))
		}
		fv.Set(rv)
	}

	in.logger.Debug("constructed", "type", ireflect.TypeName(t))

	if ptr {
		return val.Interface(), nil
	}
	return elem.Interface(), nil
}

// callFactory resolves every parameter of a constructor function and
// invokes it. Unlike struct fields, parameters have no zero-value fallback:
// each one must resolve.
func (in *Injector) callFactory(rc *resolution, key Key, f *ireflect.Factory, overrides []Override) (any, error) {
	ov := newOverrideSet(overrides)
	owner := f.Signature()

	args := make([]reflect.Value, len(f.Params))
	for i, pt := range f.Params {
		m := member{
			what:  fmt.Sprintf("parameter %d (%s)", i, ireflect.TypeName(pt)),
			owner: owner,
			typ:   pt,
		}
		v, ok, err := in.resolveMember(rc, m, ov)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errMissingParameter(m.what, owner, nil)
		}

		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			rv = reflect.Zero(pt)
		} else if !rv.Type().AssignableTo(pt) {
			return nil, errInvalidBinding(fmt.Sprintf(
				"cannot pass %s as %s of %s", ireflect.TypeName(rv.Type()), m.what, owner,
			))
		}
		args[i] = rv
	}

	v, err := f.Call(args)
	if err != nil {
		return nil, errProviderFailed(key, err)
	}
	return v, nil
}

// resolveMember resolves one injection site. The bool result distinguishes
// "leave the zero value" from an actual resolution: false with a nil error
// means the site was deliberately skipped.
func (in *Injector) resolveMember(rc *resolution, m member, ov *overrideSet) (any, bool, error) {
	if m.name != "" {
		if v, ok := ov.forField(m.name); ok {
			return v, true, nil
		}
	}
	if v, ok := ov.forType(m.typ); ok {
		return v.Interface(), true, nil
	}

	// the injector injects itself
	if m.typ == injectorType {
		return in, true, nil
	}

	// lazy: provider-shaped parameters defer resolution until called
	if elem, hasErr, ok := ireflect.ProviderShape(m.typ); ok {
		return in.lazyFunc(m.typ, elem, hasErr, m.named).Interface(), true, nil
	}

	if elem, ok := optionalElem(m.typ); ok {
		return in.buildOptional(rc, m.typ, elem, m.named), true, nil
	}

	// collections materialize multibindings, when one is registered
	if m.typ.Kind() == reflect.Slice {
		if mb := in.config.MultibindingFor(m.typ.Elem()); mb != nil {
			rv, err := in.materializeList(rc, m.typ.Elem(), mb)
			if err != nil {
				return nil, false, err
			}
			return rv.Interface(), true, nil
		}
	}
	if m.typ.Kind() == reflect.Map && m.typ.Elem() == emptyStructType {
		if mb := in.config.MultibindingFor(m.typ.Key()); mb != nil {
			rv, err := in.materializeSet(rc, m.typ.Key(), mb)
			if err != nil {
				return nil, false, err
			}
			return rv.Interface(), true, nil
		}
	}

	// qualified sites resolve through key bindings only
	if m.named != "" {
		v, err := in.resolveBoundKey(rc, Key{Type: m.typ, Qualifier: Named(m.named)}, nil)
		if err != nil {
			if m.optional {
				return nil, false, nil
			}
			if IsCircularDependency(err) {
				return nil, false, err
			}
			return nil, false, errMissingParameter(m.what, m.owner, err)
		}
		return v, true, nil
	}

	// builtins and other non-injectable kinds keep their zero value
	if !ireflect.Injectable(m.typ) {
		return nil, false, nil
	}

	key := typeKey(m.typ)
	if !in.config.isRegistered(key) {
		if m.optional {
			return nil, false, nil
		}
		return nil, false, errMissingParameter(m.what, m.owner, errNoBinding(key))
	}

	v, err := in.resolveType(rc, key, nil)
	if err != nil {
		if m.optional {
			in.logger.Debug("optional dependency unresolved, keeping zero value",
				"member", m.what, "owner", m.owner, "error", err)
			return nil, false, nil
		}
		if IsCircularDependency(err) {
			return nil, false, err
		}
		return nil, false, errMissingParameter(m.what, m.owner, err)
	}
	return v, true, nil
}

// lazyFunc builds a closure satisfying a provider-shaped site. The closure
// starts a fresh resolution walk per call; an error from a func() T shape
// with no error return panics.
func (in *Injector) lazyFunc(t, elem reflect.Type, hasErr bool, named string) reflect.Value {
	var target any = elem
	if named != "" {
		target = Key{Type: elem, Qualifier: Named(named)}
	}

	return reflect.MakeFunc(t, func([]reflect.Value) []reflect.Value {
		v, err := in.Inject(target)

		out := reflect.Zero(elem)
		if err == nil && v != nil {
			rv := reflect.ValueOf(v)
			if rv.Type().AssignableTo(elem) {
				out = rv
			} else {
				err = errResolutionFailed(typeKey(elem), errInvalidBinding(fmt.Sprintf(
					"resolved %s is not assignable to %s",
					ireflect.TypeName(rv.Type()), ireflect.TypeName(elem),
				)))
			}
		}

		if !hasErr {
			if err != nil {
				panic(err)
			}
			return []reflect.Value{out}
		}

		errOut := reflect.Zero(errorType)
		if err != nil {
			errOut = reflect.ValueOf(err)
		}
		return []reflect.Value{out, errOut}
	})
}

func (in *Injector) buildOptional(rc *resolution, t, elem reflect.Type, named string) any {
	out := reflect.New(t).Elem()

	var v any
	var err error
	if named != "" {
		v, err = in.resolveBoundKey(rc, Key{Type: elem, Qualifier: Named(named)}, nil)
	} else {
		v, err = in.resolveType(rc, typeKey(elem), nil)
	}
	if err != nil || v == nil {
		return out.Interface()
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(elem) {
		return out.Interface()
	}
	out.Field(0).Set(rv)
	out.Field(1).SetBool(true)
	return out.Interface()
}

// materializeList builds the ordered []elem for a multibinding: pre-built
// instances first, then implementation types instantiated in registration
// order. Elements that fail to resolve are skipped.
func (in *Injector) materializeList(rc *resolution, elem reflect.Type, mb *Multibinding) (reflect.Value, error) {
	out := reflect.MakeSlice(reflect.SliceOf(elem), 0, len(mb.listInstances)+len(mb.listTypes))

	for _, inst := range mb.listInstances {
		rv := reflect.ValueOf(inst)
		if !rv.IsValid() || !rv.Type().AssignableTo(elem) {
			continue
		}
		out = reflect.Append(out, rv)
	}

	for _, impl := range mb.listTypes {
		v, err := in.resolveType(rc, typeKey(impl), nil)
		if err != nil {
			in.logger.Debug("skipping list multibinding element",
				"element", ireflect.TypeName(impl), "error", err)
			continue
		}
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || !rv.Type().AssignableTo(elem) {
			continue
		}
		out = reflect.Append(out, rv)
	}
	return out, nil
}

// materializeSet builds the map[elem]struct{} for a multibinding,
// deduplicating by value identity. Uncomparable and failing elements are
// skipped.
func (in *Injector) materializeSet(rc *resolution, elem reflect.Type, mb *Multibinding) (reflect.Value, error) {
	out := reflect.MakeMap(reflect.MapOf(elem, emptyStructType))
	unit := reflect.ValueOf(struct{}{})

	add := func(v any) {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || !rv.Type().AssignableTo(elem) {
			return
		}
		if !rv.Type().Comparable() {
			in.logger.Debug("skipping uncomparable set multibinding element",
				"element", ireflect.TypeName(rv.Type()))
			return
		}
		out.SetMapIndex(rv, unit)
	}

	for _, inst := range mb.setInstances {
		add(inst)
	}
	for _, impl := range mb.setTypes {
		v, err := in.resolveType(rc, typeKey(impl), nil)
		if err != nil {
			in.logger.Debug("skipping set multibinding element",
				"element", ireflect.TypeName(impl), "error", err)
			continue
		}
		add(v)
	}
	return out, nil
}
