package graft

// Lifetime is the legacy lifecycle flag carried by registrations that
// predate explicit Scope objects. Registration translates it to an
// equivalent Scope; resolution still honors the flag directly when no scope
// applies.
type Lifetime int

const (
	LifetimeTransient Lifetime = iota
	LifetimeSingleton
	LifetimeGlobalSingleton
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeTransient:
		return "transient"
	case LifetimeSingleton:
		return "singleton"
	case LifetimeGlobalSingleton:
		return "global_singleton"
	default:
		return "unknown"
	}
}

// SingletonRegistry is a thread-safe instance store keyed by any comparable
// value; reflect.Type, Key, and "chain:<category>:<name>" strings are the
// conventional key forms. The process-wide default (Globals) backs
// global-singleton bindings; fresh registries can be created for tests.
type SingletonRegistry struct {
	cache *keyedCache
}

func NewSingletonRegistry() *SingletonRegistry {
	return &SingletonRegistry{cache: newKeyedCache()}
}

func (r *SingletonRegistry) Get(key any) (any, bool) {
	return r.cache.get(key)
}

func (r *SingletonRegistry) Set(key, value any) {
	r.cache.set(key, value)
}

// GetOrCreate returns the stored instance for key, building and storing it
// under the per-key lock when absent. Build failures are returned and not
// stored.
func (r *SingletonRegistry) GetOrCreate(key any, build func() (any, error)) (any, error) {
	return r.cache.getOrCreate(key, build)
}

func (r *SingletonRegistry) Has(key any) bool {
	return r.cache.has(key)
}

func (r *SingletonRegistry) Clear() {
	r.cache.clear()
}

var globalRegistry = NewSingletonRegistry()

// Globals returns the process-wide singleton registry.
func Globals() *SingletonRegistry {
	return globalRegistry
}
