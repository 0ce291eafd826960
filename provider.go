package graft

// Provider is a lazy, zero-argument instance source. Scopes compose by
// wrapping one Provider in another.
type Provider interface {
	Get() (any, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func() (any, error)

func (f ProviderFunc) Get() (any, error) {
	return f()
}

type instanceProvider struct {
	value any
}

func (p instanceProvider) Get() (any, error) {
	return p.value, nil
}

// NewInstanceProvider returns a Provider that always yields value.
func NewInstanceProvider(value any) Provider {
	return instanceProvider{value: value}
}

// NewFactoryProvider returns a Provider that invokes fn on every Get, with
// no caching of its own.
func NewFactoryProvider(fn func() (any, error)) Provider {
	return ProviderFunc(fn)
}

// ProviderOf adapts a typed factory to the Provider interface.
func ProviderOf[T any](fn func() (T, error)) Provider {
	return ProviderFunc(func() (any, error) {
		return fn()
	})
}

type injectorProvider struct {
	injector *Injector
	key      Key
}

func (p injectorProvider) Get() (any, error) {
	return p.injector.Inject(p.key)
}

// NewInjectorProvider returns a Provider that delegates to the injector's
// full resolution algorithm for key, so provided values still benefit from
// recursive dependency resolution.
func NewInjectorProvider(in *Injector, key Key) Provider {
	return injectorProvider{injector: in, key: key}
}
