package graft

import (
	"reflect"
)

// Binder is a fluent front over Config registration. Errors from the
// underlying registrations accumulate; check Err once after binding.
type Binder struct {
	config *Config
	err    error
}

// Binder returns a fluent binder writing into c.
func (c *Config) Binder() *Binder {
	return &Binder{config: c}
}

// Err returns the first registration error encountered, if any.
func (b *Binder) Err() error {
	return b.err
}

func (b *Binder) record(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Bind starts a binding for abstract; complete it with To, ToInstance, or
// ToProvider, optionally followed by In.
func (b *Binder) Bind(abstract reflect.Type) *BindingBuilder {
	return &BindingBuilder{binder: b, abstract: abstract}
}

// BindKey starts a binding for a qualified key.
func (b *Binder) BindKey(key Key) *BindingBuilder {
	return &BindingBuilder{binder: b, abstract: key.Type, key: &key}
}

// BindInstance registers a pre-built instance for abstract directly.
func (b *Binder) BindInstance(abstract reflect.Type, instance any) *Binder {
	b.record(b.config.RegisterInstance(abstract, instance))
	return b
}

// BindingBuilder completes a single started binding. Each To* call
// registers immediately; In rebinds the scope of what was registered.
type BindingBuilder struct {
	binder   *Binder
	abstract reflect.Type
	key      *Key
	scope    Scope
}

// To binds the started abstract to an implementation type.
func (bb *BindingBuilder) To(impl reflect.Type) *BindingBuilder {
	if bb.key != nil {
		bb.binder.record(bb.binder.config.RegisterKey(*bb.key, impl, WithScope(bb.scope)))
		return bb
	}
	scope := bb.scope
	if scope == nil {
		scope = NoScope{}
	}
	bb.binder.record(bb.binder.config.Register(bb.abstract, impl, WithScope(scope)))
	return bb
}

// ToInstance binds the started abstract to a pre-built value.
func (bb *BindingBuilder) ToInstance(v any) *BindingBuilder {
	if bb.key != nil {
		bb.binder.record(bb.binder.config.RegisterKey(*bb.key, NewInstanceProvider(v)))
		return bb
	}
	bb.binder.record(bb.binder.config.RegisterInstance(bb.abstract, v))
	return bb
}

// ToProvider binds the started abstract to a Provider.
func (bb *BindingBuilder) ToProvider(p Provider) *BindingBuilder {
	if bb.key != nil {
		bb.binder.record(bb.binder.config.RegisterKey(*bb.key, p, WithScope(bb.scope)))
		return bb
	}
	opts := []BindOption{}
	if bb.scope != nil {
		opts = append(opts, WithScope(bb.scope))
	}
	bb.binder.record(bb.binder.config.RegisterProvider(bb.abstract, p, opts...))
	return bb
}

// In sets the scope. Called before a To* it applies at registration; called
// after, it rebinds the already registered binding's scope.
func (bb *BindingBuilder) In(scope Scope) *BindingBuilder {
	bb.scope = scope
	if bb.key != nil {
		if kb, ok := bb.binder.config.KeyBindingFor(*bb.key); ok {
			kb.Scope = scope
			bb.binder.config.keyBindings[*bb.key] = kb
		}
		return bb
	}
	if scope != nil && bb.abstract != nil {
		if bb.binder.config.isRegistered(typeKey(bb.abstract)) {
			bb.binder.config.scopes[typeKey(bb.abstract)] = scope
		}
	}
	return bb
}
