package graft

import "sync"

// Scope is a lifecycle policy: given a Key and the Provider that builds an
// instance, it returns a Provider applying the caching policy. Scope
// implementations must be comparable (the injector indexes its mirror cache
// by scope identity).
type Scope interface {
	Scope(key Key, provider Provider) Provider
}

// NoScope performs no caching: every Get builds a fresh instance.
type NoScope struct{}

func (NoScope) Scope(_ Key, provider Provider) Provider {
	return provider
}

func isNoScope(s Scope) bool {
	switch s.(type) {
	case NoScope, *NoScope:
		return true
	default:
		return false
	}
}

// keyedCache backs the caching scopes and the singleton registry. The
// per-key lock is held across first construction so concurrent first access
// builds exactly once. Failures are not stored; the next Get retries the
// provider.
type keyedCache struct {
	mu      sync.Mutex
	entries map[any]*cacheEntry
}

type cacheEntry struct {
	mu    sync.Mutex
	value any
	done  bool
}

func newKeyedCache() *keyedCache {
	return &keyedCache{entries: make(map[any]*cacheEntry)}
}

func (c *keyedCache) entry(key any) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}
	return e
}

func (c *keyedCache) getOrCreate(key any, build func() (any, error)) (any, error) {
	e := c.entry(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		return e.value, nil
	}

	v, err := build()
	if err != nil {
		return nil, err
	}

	e.value = v
	e.done = true
	return v, nil
}

func (c *keyedCache) get(key any) (any, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.done
}

func (c *keyedCache) set(key, value any) {
	e := c.entry(key)

	e.mu.Lock()
	e.value = value
	e.done = true
	e.mu.Unlock()
}

func (c *keyedCache) has(key any) bool {
	_, ok := c.get(key)
	return ok
}

func (c *keyedCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[any]*cacheEntry)
}

// SingletonScope caches one instance per Key for its own lifetime,
// conventionally one scope instance per injector.
type SingletonScope struct {
	cache *keyedCache
}

func NewSingletonScope() *SingletonScope {
	return &SingletonScope{cache: newKeyedCache()}
}

func (s *SingletonScope) Scope(key Key, provider Provider) Provider {
	return ProviderFunc(func() (any, error) {
		return s.cache.getOrCreate(key, provider.Get)
	})
}

func (s *SingletonScope) Has(key Key) bool {
	return s.cache.has(key)
}

func (s *SingletonScope) Clear() {
	s.cache.clear()
}

// globalScopeCache is shared by every GlobalSingletonScope instance.
var globalScopeCache = newKeyedCache()

// GlobalSingletonScope caches one instance per Key in a single process-wide
// table shared by all instances of this scope type. Clear and Has exist for
// test isolation.
type GlobalSingletonScope struct{}

func NewGlobalSingletonScope() *GlobalSingletonScope {
	return &GlobalSingletonScope{}
}

func (*GlobalSingletonScope) Scope(key Key, provider Provider) Provider {
	return ProviderFunc(func() (any, error) {
		return globalScopeCache.getOrCreate(key, provider.Get)
	})
}

func (*GlobalSingletonScope) Has(key Key) bool {
	return globalScopeCache.has(key)
}

func (*GlobalSingletonScope) Clear() {
	globalScopeCache.clear()
}
