package graft

import (
	"reflect"

	ireflect "github.com/graftwire/graft/internal/reflect"
)

// MembersInjector fills the injectable fields of structs that already
// exist. *Injector satisfies it, which keeps components that only need
// field population decoupled from the full container surface.
type MembersInjector interface {
	InjectMembers(target any) error
}

// InjectMembers populates the injectable fields of an existing struct.
// Target must be a non-nil pointer to struct. Fields with no matching
// binding are left untouched; a bound field whose resolution fails is an
// error unless the field is tagged optional.
func (in *Injector) InjectMembers(target any) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errInvalidBinding("members injection target must be a non-nil pointer to struct")
	}

	elem := rv.Elem()
	fields, err := ireflect.StructFields(elem.Type(), TagKey)
	if err != nil {
		return errInvalidBinding(err.Error())
	}

	rc := &resolution{}
	ov := &overrideSet{}
	owner := ireflect.TypeName(elem.Type())

	for _, f := range fields {
		fv := elem.Field(f.Index)
		if !fv.CanSet() {
			continue
		}

		m := member{
			what:     "field " + f.Name + " (" + ireflect.TypeName(f.Type) + ")",
			owner:    owner,
			typ:      f.Type,
			name:     f.Name,
			named:    f.Named,
			optional: f.Optional,
		}
		if !in.memberBound(m) {
			continue
		}

		v, ok, err := in.resolveMember(rc, m, ov)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		out := reflect.ValueOf(v)
		if !out.IsValid() || !out.Type().AssignableTo(f.Type) {
			continue
		}
		fv.Set(out)
	}
	return nil
}

// memberBound reports whether a binding or resolvable shape exists for the
// site, deciding whether members injection attempts it at all.
func (in *Injector) memberBound(m member) bool {
	if m.typ == injectorType {
		return true
	}
	if _, _, ok := ireflect.ProviderShape(m.typ); ok {
		return true
	}
	if _, ok := optionalElem(m.typ); ok {
		return true
	}
	if m.typ.Kind() == reflect.Slice && in.config.MultibindingFor(m.typ.Elem()) != nil {
		return true
	}
	if m.typ.Kind() == reflect.Map && m.typ.Elem() == emptyStructType &&
		in.config.MultibindingFor(m.typ.Key()) != nil {
		return true
	}
	if m.named != "" {
		_, ok := in.config.KeyBindingFor(Key{Type: m.typ, Qualifier: Named(m.named)})
		return ok
	}
	if !ireflect.Injectable(m.typ) {
		return false
	}
	return in.config.isRegistered(typeKey(m.typ))
}
