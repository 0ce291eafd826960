package graft

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	ireflect "github.com/graftwire/graft/internal/reflect"
)

// TagKey is the struct tag consulted during field injection:
// `graft:"name"`, `graft:",optional"`, `graft:"name,optional"`, `graft:"-"`.
const TagKey = "graft"

// Registration is a stored concrete binding: an implementation type or a
// factory function, never both.
type Registration struct {
	Type    reflect.Type
	Factory *ireflect.Factory
}

// KeyBinding is the stored triple for a qualified key registration.
type KeyBinding struct {
	Impl     reflect.Type
	Provider Provider
	Scope    Scope
}

// Config accumulates bindings while its configure functions run and serves
// read-only lookups afterwards. Registration is not synchronized: finish all
// of it before handing the Config to an injector. The instances table alone
// is mutex-guarded because the legacy lazy-singleton path writes back into
// it at resolution time.
type Config struct {
	registrations map[Key]*Registration
	providers     map[Key]Provider
	scopes        map[Key]Scope
	lifetimes     map[Key]Lifetime
	keyBindings   map[Key]KeyBinding
	multis        map[reflect.Type]*Multibinding

	instMu    sync.RWMutex
	instances map[Key]any // nil value marks a lazy singleton placeholder

	chainByType    map[chainIndex]reflect.Type
	chainByName    map[chainIndex]reflect.Type
	chainInstances map[chainIndex]ChainHandler
	chainLifetimes map[chainIndex]Lifetime

	modules map[reflect.Type]moduleRegistration
}

// NewConfig builds a Config and runs each configure function exactly once.
func NewConfig(configure ...func(*Config)) *Config {
	c := &Config{
		registrations:  make(map[Key]*Registration),
		providers:      make(map[Key]Provider),
		scopes:         make(map[Key]Scope),
		lifetimes:      make(map[Key]Lifetime),
		keyBindings:    make(map[Key]KeyBinding),
		multis:         make(map[reflect.Type]*Multibinding),
		instances:      make(map[Key]any),
		chainByType:    make(map[chainIndex]reflect.Type),
		chainByName:    make(map[chainIndex]reflect.Type),
		chainInstances: make(map[chainIndex]ChainHandler),
		chainLifetimes: make(map[chainIndex]Lifetime),
		modules:        make(map[reflect.Type]moduleRegistration),
	}
	c.Install(configure...)
	return c
}

// Install applies further configure functions, allowing registration groups
// to be composed out of plain functions.
func (c *Config) Install(configure ...func(*Config)) {
	for _, fn := range configure {
		if fn != nil {
			fn(c)
		}
	}
}

type bindSettings struct {
	scope       Scope
	lifetime    Lifetime
	lifetimeSet bool
	singleton   bool
	provider    Provider
}

type BindOption func(*bindSettings)

// WithScope binds an explicit lifecycle scope.
func WithScope(s Scope) BindOption {
	return func(bs *bindSettings) {
		bs.scope = s
	}
}

// WithLifetime sets the legacy lifecycle flag; non-transient lifetimes are
// translated to an equivalent scope when no explicit scope is given.
func WithLifetime(l Lifetime) BindOption {
	return func(bs *bindSettings) {
		bs.lifetime = l
		bs.lifetimeSet = true
	}
}

// AsSingleton is the legacy boolean singleton flag. It cannot be combined
// with WithLifetime.
func AsSingleton() BindOption {
	return func(bs *bindSettings) {
		bs.singleton = true
	}
}

// WithProvider registers a Provider for the binding; it takes precedence
// over any concrete implementation.
func WithProvider(p Provider) BindOption {
	return func(bs *bindSettings) {
		bs.provider = p
	}
}

func applyBindOptions(opts []BindOption) bindSettings {
	var bs bindSettings
	for _, opt := range opts {
		opt(&bs)
	}
	return bs
}

// Register binds abstract to concrete. Concrete may be a reflect.Type (an
// implementation type), a factory function returning the implementation (or
// implementation and error), or any other value, which is registered as a
// pre-built instance. Re-registering the same abstract overwrites the prior
// binding.
func (c *Config) Register(abstract reflect.Type, concrete any, opts ...BindOption) error {
	if abstract == nil {
		return errInvalidBinding("abstract must be a non-nil type")
	}

	bs := applyBindOptions(opts)
	if bs.singleton && bs.lifetimeSet {
		return errInvalidBinding("cannot combine AsSingleton with WithLifetime")
	}

	lifetime := bs.lifetime
	if bs.singleton {
		lifetime = LifetimeSingleton
	}

	key := typeKey(abstract)

	scope := bs.scope
	if scope == nil && lifetime != LifetimeTransient {
		if lifetime == LifetimeGlobalSingleton {
			scope = NewGlobalSingletonScope()
		} else {
			scope = NewSingletonScope()
		}
	}
	if scope != nil {
		c.scopes[key] = scope
	}

	if bs.provider != nil {
		c.providers[key] = bs.provider
		if t, ok := concrete.(reflect.Type); ok {
			c.registrations[key] = &Registration{Type: t}
		}
		return nil
	}

	if lifetime != LifetimeTransient {
		c.lifetimes[key] = lifetime
	}

	if concrete == nil {
		return errInvalidBinding(fmt.Sprintf("concrete for %s must be a type, factory function, or instance", key))
	}

	if t, ok := concrete.(reflect.Type); ok {
		if lifetime == LifetimeSingleton {
			c.setInstance(key, nil)
		}
		c.registrations[key] = &Registration{Type: t}
		return nil
	}

	if reflect.ValueOf(concrete).Kind() == reflect.Func {
		factory, err := ireflect.NewFactory(concrete)
		if err != nil {
			return errInvalidBinding(err.Error())
		}
		c.registrations[key] = &Registration{Factory: factory}
		return nil
	}

	c.setInstance(key, concrete)
	c.registrations[key] = &Registration{Type: reflect.TypeOf(concrete)}
	return nil
}

// RegisterInstance binds abstract directly to a pre-built object; every
// resolution returns the same reference, bypassing scopes entirely.
func (c *Config) RegisterInstance(abstract reflect.Type, instance any) error {
	if abstract == nil {
		return errInvalidBinding("abstract must be a non-nil type")
	}
	if ireflect.IsNil(instance) {
		return errInvalidBinding("instance must be non-nil")
	}

	key := typeKey(abstract)
	c.setInstance(key, instance)
	c.registrations[key] = &Registration{Type: reflect.TypeOf(instance)}
	return nil
}

// RegisterProvider binds abstract to a Provider.
func (c *Config) RegisterProvider(abstract reflect.Type, p Provider, opts ...BindOption) error {
	if p == nil {
		return errInvalidBinding("provider must be non-nil")
	}
	opts = append(opts, WithProvider(p))
	return c.Register(abstract, abstract, opts...)
}

// RegisterKey binds a qualified Key. Implementation may be a concrete
// reflect.Type or a Provider; nil falls back to the key's own type. Only
// WithScope applies among the options.
func (c *Config) RegisterKey(key Key, implementation any, opts ...BindOption) error {
	if key.Type == nil {
		return errInvalidBinding("key type must be a non-nil type")
	}
	if n, ok := key.Qualifier.(Named); ok && n == "" {
		return errInvalidName("named qualifier must be a non-empty string")
	}

	bs := applyBindOptions(opts)
	kb := KeyBinding{Scope: bs.scope}

	switch impl := implementation.(type) {
	case nil:
		kb.Impl = key.Type
	case Provider:
		kb.Provider = impl
	case reflect.Type:
		kb.Impl = impl
	default:
		return errInvalidBinding(fmt.Sprintf("implementation for %s must be a concrete type or a Provider", key))
	}

	c.keyBindings[key] = kb
	return nil
}

// Registration returns the stored concrete binding for key, or nil.
func (c *Config) Registration(key Key) *Registration {
	return c.registrations[key]
}

// Instance returns the pre-built instance for key. A lazy placeholder reads
// as absent.
func (c *Config) Instance(key Key) (any, bool) {
	c.instMu.RLock()
	defer c.instMu.RUnlock()

	v, ok := c.instances[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// ScopeFor returns the bound scope for key, or nil.
func (c *Config) ScopeFor(key Key) Scope {
	return c.scopes[key]
}

// ProviderFor returns the bound provider for key, or nil.
func (c *Config) ProviderFor(key Key) Provider {
	return c.providers[key]
}

// LifetimeFor returns the legacy lifecycle flag for key; absent reads as
// LifetimeTransient.
func (c *Config) LifetimeFor(key Key) Lifetime {
	return c.lifetimes[key]
}

// KeyBindingFor returns the qualified binding triple for key.
func (c *Config) KeyBindingFor(key Key) (KeyBinding, bool) {
	kb, ok := c.keyBindings[key]
	return kb, ok
}

// MultibindingFor returns the multibinding aggregated for iface, or nil.
func (c *Config) MultibindingFor(iface reflect.Type) *Multibinding {
	return c.multis[iface]
}

func (c *Config) setInstance(key Key, v any) {
	c.instMu.Lock()
	c.instances[key] = v
	c.instMu.Unlock()
}

func (c *Config) hasPlaceholder(key Key) bool {
	c.instMu.RLock()
	defer c.instMu.RUnlock()

	v, ok := c.instances[key]
	return ok && v == nil
}

// isRegistered reports whether any table carries a binding for key. It
// decides whether parameter resolution will attempt injection at all.
func (c *Config) isRegistered(key Key) bool {
	if _, ok := c.registrations[key]; ok {
		return true
	}
	if _, ok := c.providers[key]; ok {
		return true
	}
	if _, ok := c.scopes[key]; ok {
		return true
	}
	if _, ok := c.lifetimes[key]; ok {
		return true
	}
	if _, ok := c.keyBindings[key]; ok {
		return true
	}
	c.instMu.RLock()
	defer c.instMu.RUnlock()
	_, ok := c.instances[key]
	return ok
}

// Size returns the number of distinct bound keys.
func (c *Config) Size() int {
	return len(c.keySet())
}

// Keys returns the rendered form of every bound key, sorted.
func (c *Config) Keys() []string {
	set := c.keySet()
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

func (c *Config) keySet() map[Key]struct{} {
	set := make(map[Key]struct{})
	for k := range c.registrations {
		set[k] = struct{}{}
	}
	for k := range c.providers {
		set[k] = struct{}{}
	}
	for k := range c.keyBindings {
		set[k] = struct{}{}
	}
	c.instMu.RLock()
	for k := range c.instances {
		set[k] = struct{}{}
	}
	c.instMu.RUnlock()
	return set
}

// Bind binds interface or struct type A to concrete implementation type C.
func Bind[A, C any](c *Config, opts ...BindOption) error {
	return c.Register(ireflect.TypeOf[A](), ireflect.TypeOf[C](), opts...)
}

// MustBind is Bind, panicking on error.
func MustBind[A, C any](c *Config, opts ...BindOption) {
	if err := Bind[A, C](c, opts...); err != nil {
		panic(err)
	}
}

// BindValue binds A to a pre-built value.
func BindValue[A any](c *Config, value A) error {
	return c.RegisterInstance(ireflect.TypeOf[A](), value)
}

// MustBindValue is BindValue, panicking on error.
func MustBindValue[A any](c *Config, value A) {
	if err := BindValue[A](c, value); err != nil {
		panic(err)
	}
}

// BindFactory binds A to a constructor function whose return type must be
// assignable to A (optionally with a trailing error).
func BindFactory[A any](c *Config, factory any, opts ...BindOption) error {
	abstract := ireflect.TypeOf[A]()

	f, err := ireflect.NewFactory(factory)
	if err != nil {
		return errInvalidBinding(err.Error())
	}
	if !f.Out.AssignableTo(abstract) {
		return errInvalidBinding(fmt.Sprintf(
			"factory returns %s, which is not assignable to %s",
			ireflect.TypeName(f.Out), ireflect.TypeName(abstract),
		))
	}

	return c.Register(abstract, factory, opts...)
}

// MustBindFactory is BindFactory, panicking on error.
func MustBindFactory[A any](c *Config, factory any, opts ...BindOption) {
	if err := BindFactory[A](c, factory, opts...); err != nil {
		panic(err)
	}
}

// BindProvider binds A to a Provider.
func BindProvider[A any](c *Config, p Provider, opts ...BindOption) error {
	return c.RegisterProvider(ireflect.TypeOf[A](), p, opts...)
}

// BindNamed binds the Key (A, Named(name)) to concrete type C.
func BindNamed[A, C any](c *Config, name string, opts ...BindOption) error {
	return c.RegisterKey(NamedKey[A](name), ireflect.TypeOf[C](), opts...)
}

// BindNamedValue binds the Key (A, Named(name)) to a pre-built value.
func BindNamedValue[A any](c *Config, name string, value A) error {
	return c.RegisterKey(NamedKey[A](name), NewInstanceProvider(value))
}

// RegisterModuleFor registers interface I for discovery under root.
func RegisterModuleFor[I any](c *Config, root string, opts ...DiscoverOption) error {
	return c.RegisterModule(ireflect.TypeOf[I](), root, opts...)
}
