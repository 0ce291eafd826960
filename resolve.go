package graft

import (
	"slices"
	"time"
)

// resolution carries the in-flight key stack of one resolution walk, for
// cycle detection and dependency edge recording. Lazy provider-shaped
// parameters start a fresh walk when invoked, which is what lets them break
// cycles.
type resolution struct {
	stack []Key
}

func (rc *resolution) push(key Key) error {
	if slices.Contains(rc.stack, key) {
		chain := make([]string, 0, len(rc.stack)+1)
		for _, k := range rc.stack {
			chain = append(chain, k.String())
		}
		chain = append(chain, key.String())
		return errCircularDependency(chain)
	}
	rc.stack = append(rc.stack, key)
	return nil
}

func (rc *resolution) pop() {
	rc.stack = rc.stack[:len(rc.stack)-1]
}

func (in *Injector) recordEdge(rc *resolution) {
	n := len(rc.stack)
	if n >= 2 {
		in.graph.AddEdge(rc.stack[n-2].String(), rc.stack[n-1].String())
		return
	}
	if n == 1 {
		in.graph.AddNode(rc.stack[0].String())
	}
}

// resolveBoundKey resolves a qualified key through the key binding table.
// Unlike type resolution there is no fallthrough: an unbound key fails even
// when its bare type is registered. Overrides reach the bound implementation
// type when one is instantiated; provider bindings take no construction
// parameters and ignore them.
func (in *Injector) resolveBoundKey(rc *resolution, key Key, overrides []Override) (result any, err error) {
	start := time.Now()
	defer func() {
		in.observeResolve(key, time.Since(start), err)
	}()

	if key.Type == nil {
		return nil, errInvalidBinding("key must carry a non-nil type")
	}
	if err := rc.push(key); err != nil {
		return nil, err
	}
	defer rc.pop()
	in.recordEdge(rc)

	kb, ok := in.config.KeyBindingFor(key)
	if !ok {
		return nil, errNoBinding(key)
	}

	if kb.Provider != nil {
		provider := kb.Provider
		if kb.Scope != nil && !isNoScope(kb.Scope) {
			return in.resolveScoped(key, kb.Scope, provider)
		}
		v, err := provider.Get()
		if err != nil {
			return nil, errProviderFailed(key, err)
		}
		return v, nil
	}

	impl := kb.Impl
	if impl == nil {
		impl = key.Type
	}

	if kb.Scope != nil && !isNoScope(kb.Scope) {
		// The implementation type differs from the bound key, so a full
		// nested resolution cannot re-enter this same scope branch.
		inner := ProviderFunc(func() (any, error) {
			return in.resolveType(rc, typeKey(impl), overrides)
		})
		return in.resolveScoped(key, kb.Scope, inner)
	}

	return in.resolveType(rc, typeKey(impl), overrides)
}

// resolveType resolves a bare type key through the full, ordered binding
// tables: provider, scope, legacy lifetime caches, instances, then
// instantiation.
func (in *Injector) resolveType(rc *resolution, key Key, overrides []Override) (result any, err error) {
	start := time.Now()
	defer func() {
		in.observeResolve(key, time.Since(start), err)
	}()

	if err := rc.push(key); err != nil {
		return nil, err
	}
	defer rc.pop()
	in.recordEdge(rc)

	if p := in.config.ProviderFor(key); p != nil {
		v, err := p.Get()
		if err != nil {
			return nil, errProviderFailed(key, err)
		}
		return v, nil
	}

	if s := in.config.ScopeFor(key); s != nil && !isNoScope(s) {
		// The inner provider continues below the scope branch rather than
		// restarting resolution, so the scope cannot recurse into itself
		// while building its own cache entry.
		inner := ProviderFunc(func() (any, error) {
			return in.resolveUnscoped(rc, key, overrides)
		})
		return in.resolveScoped(key, s, inner)
	}

	return in.resolveUnscoped(rc, key, overrides)
}

// resolveUnscoped runs the resolution steps below provider and scope
// dispatch: global registry, pre-built instances, singleton caches, and
// instantiation. The key is assumed to be already on the resolution stack.
func (in *Injector) resolveUnscoped(rc *resolution, key Key, overrides []Override) (any, error) {
	cfg := in.config
	lifetime := cfg.LifetimeFor(key)

	if lifetime == LifetimeGlobalSingleton {
		built := false
		v, err := Globals().GetOrCreate(key, func() (any, error) {
			built = true
			return in.instantiateKey(rc, key, overrides)
		})
		if err != nil {
			return nil, err
		}
		if built {
			in.recordCreation(key, v)
		}
		return v, nil
	}

	if v, ok := cfg.Instance(key); ok {
		return v, nil
	}

	if lifetime == LifetimeSingleton {
		if v, ok := in.cachedSingleton(key); ok {
			return v, nil
		}
	}

	reg := cfg.Registration(key)
	if reg == nil {
		v, err := in.instantiateType(rc, key.Type, overrides)
		if err != nil {
			return nil, err
		}
		if lifetime == LifetimeSingleton {
			in.storeSingleton(key, v)
		}
		return v, nil
	}

	if cfg.hasPlaceholder(key) {
		v, err := in.instantiateRegistration(rc, key, reg, overrides)
		if err != nil {
			return nil, err
		}
		in.storeSingleton(key, v)
		cfg.setInstance(key, v)
		return v, nil
	}

	v, err := in.instantiateRegistration(rc, key, reg, overrides)
	if err != nil {
		return nil, err
	}
	if lifetime == LifetimeSingleton {
		in.storeSingleton(key, v)
	}
	return v, nil
}

// instantiateKey builds a fresh value for key from its registration, or
// directly from the key's type when nothing is registered.
func (in *Injector) instantiateKey(rc *resolution, key Key, overrides []Override) (any, error) {
	if reg := in.config.Registration(key); reg != nil {
		return in.instantiateRegistration(rc, key, reg, overrides)
	}
	return in.instantiateType(rc, key.Type, overrides)
}

// resolveScoped delegates caching to the scope's provider wrapper. The scope
// owns the caching decision, so clearing a scope makes the next resolution
// rebuild. Results from the two built-in caching scopes are mirrored into
// the injector's bookkeeping so lifecycle and Forget can see them.
func (in *Injector) resolveScoped(key Key, scope Scope, inner Provider) (any, error) {
	v, err := scope.Scope(key, inner).Get()
	if err != nil {
		return nil, err
	}

	switch scope.(type) {
	case *SingletonScope, *GlobalSingletonScope:
		in.mu.Lock()
		m, ok := in.scoped[scope]
		if !ok {
			m = make(map[Key]any)
			in.scoped[scope] = m
		}
		prev, exists := m[key]
		if !exists || (trackable(prev) && trackable(v) && prev != v) {
			m[key] = v
			in.recordLocked(key, v)
		}
		in.mu.Unlock()
	}
	return v, nil
}
