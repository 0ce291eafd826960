package graft

import (
	"fmt"
	"reflect"

	ireflect "github.com/graftwire/graft/internal/reflect"
)

// Multibinding aggregates contributions to one interface for
// collection-typed injection. The set part is unordered and deduplicated;
// the list part preserves registration order and duplicates. Materialized
// lists place pre-built instances before instantiated implementation types.
type Multibinding struct {
	setTypes      []reflect.Type
	listTypes     []reflect.Type
	setInstances  []any
	listInstances []any
}

// SetTypes returns the deduplicated implementation types contributed to the
// set part, in first-registration order.
func (m *Multibinding) SetTypes() []reflect.Type {
	out := make([]reflect.Type, len(m.setTypes))
	copy(out, m.setTypes)
	return out
}

// ListTypes returns the implementation types contributed to the list part,
// in registration order with duplicates preserved.
func (m *Multibinding) ListTypes() []reflect.Type {
	out := make([]reflect.Type, len(m.listTypes))
	copy(out, m.listTypes)
	return out
}

// SetInstances returns the pre-built instances contributed to the set part.
func (m *Multibinding) SetInstances() []any {
	out := make([]any, len(m.setInstances))
	copy(out, m.setInstances)
	return out
}

// ListInstances returns the pre-built instances contributed to the list
// part, in registration order.
func (m *Multibinding) ListInstances() []any {
	out := make([]any, len(m.listInstances))
	copy(out, m.listInstances)
	return out
}

func (m *Multibinding) addType(impl reflect.Type, asSet bool) {
	if asSet {
		for _, t := range m.setTypes {
			if t == impl {
				return
			}
		}
		m.setTypes = append(m.setTypes, impl)
		return
	}
	m.listTypes = append(m.listTypes, impl)
}

func (m *Multibinding) addInstance(v any, asSet bool) error {
	if asSet {
		if !reflect.TypeOf(v).Comparable() {
			return errInvalidBinding(fmt.Sprintf(
				"set multibinding requires comparable instances, got %s",
				ireflect.TypeName(reflect.TypeOf(v)),
			))
		}
		for _, existing := range m.setInstances {
			if existing == v {
				return nil
			}
		}
		m.setInstances = append(m.setInstances, v)
		return nil
	}
	m.listInstances = append(m.listInstances, v)
	return nil
}

func (c *Config) multibinding(iface reflect.Type) *Multibinding {
	mb, ok := c.multis[iface]
	if !ok {
		mb = &Multibinding{}
		c.multis[iface] = mb
	}
	return mb
}

// RegisterMultibinding contributes an implementation to the collection bound
// for iface. Implementation may be a reflect.Type, which is instantiated per
// materialization, or a pre-built instance. asSet selects the set part.
func (c *Config) RegisterMultibinding(iface reflect.Type, implementation any, asSet bool) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return errInvalidBinding("multibinding target must be a non-nil interface type")
	}
	if implementation == nil {
		return errInvalidBinding(fmt.Sprintf("multibinding contribution for %s must be non-nil", ireflect.TypeName(iface)))
	}

	if impl, ok := implementation.(reflect.Type); ok {
		if _, ok := ireflect.Implements(impl, iface); !ok {
			return errInvalidBinding(fmt.Sprintf(
				"%s does not implement %s", ireflect.TypeName(impl), ireflect.TypeName(iface),
			))
		}
		c.multibinding(iface).addType(impl, asSet)
		return nil
	}

	if !reflect.TypeOf(implementation).Implements(iface) {
		return errInvalidBinding(fmt.Sprintf(
			"%s does not implement %s",
			ireflect.TypeName(reflect.TypeOf(implementation)), ireflect.TypeName(iface),
		))
	}
	return c.multibinding(iface).addInstance(implementation, asSet)
}

// Multibinder is a builder over RegisterMultibinding; contributions are
// written through to the Config immediately.
type Multibinder struct {
	config *Config
	iface  reflect.Type
	asSet  bool
}

// Multibinder returns a contribution builder for iface. asSet selects the
// set part; pass false to contribute to the ordered list part.
func (c *Config) Multibinder(iface reflect.Type, asSet bool) *Multibinder {
	return &Multibinder{config: c, iface: iface, asSet: asSet}
}

// Add contributes an implementation type.
func (b *Multibinder) Add(impl reflect.Type) error {
	return b.config.RegisterMultibinding(b.iface, impl, b.asSet)
}

// AddInstance contributes a pre-built instance.
func (b *Multibinder) AddInstance(v any) error {
	return b.config.RegisterMultibinding(b.iface, v, b.asSet)
}

// MultibinderFor returns a contribution builder for interface I.
func MultibinderFor[I any](c *Config, asSet bool) *Multibinder {
	return c.Multibinder(ireflect.TypeOf[I](), asSet)
}

// AddBinding contributes implementation type C to the collection bound for
// interface I.
func AddBinding[I, C any](c *Config, asSet bool) error {
	return c.RegisterMultibinding(ireflect.TypeOf[I](), ireflect.TypeOf[C](), asSet)
}
