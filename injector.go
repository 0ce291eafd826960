package graft

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/graftwire/graft/internal/graph"
	ireflect "github.com/graftwire/graft/internal/reflect"
)

// Injector resolves bindings out of a Config. Resolution is safe for
// concurrent use once configuration has finished. Each injector carries its
// own singleton and scope caches; only GlobalSingletonScope and the global
// registry are shared between injectors.
type Injector struct {
	config *Config
	logger *slog.Logger

	mu              sync.Mutex
	singletons      map[Key]any
	scoped          map[Scope]map[Key]any
	chainSingletons map[chainIndex]ChainHandler
	created         []creationRecord

	graph *graph.Graph

	onResolve []ResolveHook
	onStart   []StartHook
	onStop    []StopHook
}

type creationRecord struct {
	key      Key
	instance any
}

// New builds a Config from configure and wraps it in an injector.
func New(configure func(*Config), opts ...Option) *Injector {
	var fns []func(*Config)
	if configure != nil {
		fns = append(fns, configure)
	}
	return NewInjector(NewConfig(fns...), opts...)
}

// NewInjector wraps an already built Config.
func NewInjector(cfg *Config, opts ...Option) *Injector {
	if cfg == nil {
		cfg = NewConfig()
	}

	ic := injectorConfig{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&ic)
		}
	}

	return &Injector{
		config:          cfg,
		logger:          ic.logger,
		singletons:      make(map[Key]any),
		scoped:          make(map[Scope]map[Key]any),
		chainSingletons: make(map[chainIndex]ChainHandler),
		graph:           graph.New(),
		onResolve:       ic.onResolve,
		onStart:         ic.onStart,
		onStop:          ic.onStop,
	}
}

// Config returns the injector's binding registry.
func (in *Injector) Config() *Config {
	return in.config
}

// Forget drops the injector's cached singleton for key, along with any
// scope-mirror entries. The next resolution rebuilds it. Shared global
// caches are left alone.
func (in *Injector) Forget(key Key) {
	in.mu.Lock()
	defer in.mu.Unlock()

	delete(in.singletons, key)
	for _, m := range in.scoped {
		delete(m, key)
	}
	for i := len(in.created) - 1; i >= 0; i-- {
		if in.created[i].key == key {
			in.created = append(in.created[:i], in.created[i+1:]...)
		}
	}
}

func (in *Injector) storeSingleton(key Key, v any) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if _, ok := in.singletons[key]; ok {
		return
	}
	in.singletons[key] = v
	in.recordLocked(key, v)
}

func (in *Injector) cachedSingleton(key Key) (any, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	v, ok := in.singletons[key]
	return v, ok
}

// scopedCached reports whether any scope tracked by this injector holds a
// value for key.
func (in *Injector) scopedCached(key Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, m := range in.scoped {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

func (in *Injector) recordCreation(key Key, v any) {
	in.mu.Lock()
	in.recordLocked(key, v)
	in.mu.Unlock()
}

// recordLocked appends to the creation order unless the same instance is
// already recorded under the key; a value can arrive through both the
// singleton table and a scope mirror. Callers hold in.mu.
func (in *Injector) recordLocked(key Key, v any) {
	if trackable(v) {
		for _, rec := range in.created {
			if rec.key == key && trackable(rec.instance) && rec.instance == v {
				return
			}
		}
	}
	in.created = append(in.created, creationRecord{key: key, instance: v})
}

func (in *Injector) creationOrder() []creationRecord {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := make([]creationRecord, len(in.created))
	copy(out, in.created)
	return out
}

// Inject resolves target, which must be a reflect.Type or a Key. Type
// targets walk the full binding tables; Key targets resolve through the
// qualified key bindings only. Overrides apply to the top-level target's
// own dependencies, not transitively.
func (in *Injector) Inject(target any, overrides ...Override) (any, error) {
	rc := &resolution{}

	switch t := target.(type) {
	case Key:
		return in.resolveBoundKey(rc, t, overrides)
	case reflect.Type:
		if t == nil {
			return nil, errInvalidBinding("inject target must be a non-nil type")
		}
		return in.resolveType(rc, typeKey(t), overrides)
	default:
		return nil, errInvalidBinding(
			"inject target must be a reflect.Type or a Key, got " + ireflect.TypeName(reflect.TypeOf(target)),
		)
	}
}

// Inject resolves T by type.
func Inject[T any](in *Injector) (T, error) {
	v, err := in.Inject(ireflect.TypeOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, errResolutionFailed(typeKey(ireflect.TypeOf[T]()), errInvalidBinding(
			"resolved value of type "+ireflect.TypeName(reflect.TypeOf(v))+" is not assignable to "+ireflect.TypeName(ireflect.TypeOf[T]()),
		))
	}
	return typed, nil
}

// MustInject is Inject, panicking on error.
func MustInject[T any](in *Injector) T {
	v, err := Inject[T](in)
	if err != nil {
		panic(err)
	}
	return v
}

// TryInject resolves T, reporting absence instead of failing when no
// binding exists. Other resolution errors are still returned.
func TryInject[T any](in *Injector) (T, bool, error) {
	var zero T
	if !HasBinding[T](in) {
		return zero, false, nil
	}
	v, err := Inject[T](in)
	if err != nil {
		if IsNotFound(err) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return v, true, nil
}

// InjectKeyOf resolves the Key (T, q) through the key binding table.
func InjectKeyOf[T any](in *Injector, q Qualifier) (T, error) {
	key := Key{Type: ireflect.TypeOf[T](), Qualifier: q}
	v, err := in.Inject(key)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, errResolutionFailed(key, errInvalidBinding(
			"resolved value of type "+ireflect.TypeName(reflect.TypeOf(v))+" is not assignable to "+ireflect.TypeName(ireflect.TypeOf[T]()),
		))
	}
	return typed, nil
}

// InjectNamed resolves the Key (T, Named(name)).
func InjectNamed[T any](in *Injector, name string) (T, error) {
	return InjectKeyOf[T](in, Named(name))
}

// MustInjectNamed is InjectNamed, panicking on error.
func MustInjectNamed[T any](in *Injector, name string) T {
	v, err := InjectNamed[T](in, name)
	if err != nil {
		panic(err)
	}
	return v
}

// TryInjectNamed resolves the Key (T, Named(name)), reporting absence
// instead of failing when the key is unbound.
func TryInjectNamed[T any](in *Injector, name string) (T, bool, error) {
	var zero T
	if !HasNamedBinding[T](in, name) {
		return zero, false, nil
	}
	v, err := InjectNamed[T](in, name)
	if err != nil {
		if IsNotFound(err) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return v, true, nil
}

// InjectOptional resolves T, folding every failure into an absent Optional.
func InjectOptional[T any](in *Injector) Optional[T] {
	v, err := Inject[T](in)
	if err != nil {
		return None[T]()
	}
	return Some(v)
}

// InjectList materializes the ordered list multibinding for T.
func InjectList[T any](in *Injector) ([]T, error) {
	elem := ireflect.TypeOf[T]()
	mb := in.config.MultibindingFor(elem)
	if mb == nil {
		return nil, newError(ErrCodeNoBinding, "no multibinding found for "+ireflect.TypeName(elem), nil).WithKey(typeKey(elem).String())
	}

	rc := &resolution{}
	rv, err := in.materializeList(rc, elem, mb)
	if err != nil {
		return nil, err
	}
	return rv.Interface().([]T), nil
}

// InjectSet materializes the deduplicated set multibinding for T.
func InjectSet[T comparable](in *Injector) (map[T]struct{}, error) {
	elem := ireflect.TypeOf[T]()
	mb := in.config.MultibindingFor(elem)
	if mb == nil {
		return nil, newError(ErrCodeNoBinding, "no multibinding found for "+ireflect.TypeName(elem), nil).WithKey(typeKey(elem).String())
	}

	rc := &resolution{}
	rv, err := in.materializeSet(rc, elem, mb)
	if err != nil {
		return nil, err
	}
	return rv.Interface().(map[T]struct{}), nil
}

// HasBinding reports whether any binding table carries T.
func HasBinding[T any](in *Injector) bool {
	return in.config.isRegistered(typeKey(ireflect.TypeOf[T]()))
}

// HasNamedBinding reports whether the Key (T, Named(name)) is bound.
func HasNamedBinding[T any](in *Injector, name string) bool {
	_, ok := in.config.KeyBindingFor(NamedKey[T](name))
	return ok
}
