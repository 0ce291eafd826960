// Package grafttest provides test helpers around an injector: construction
// with automatic shutdown, fatal-on-error injection, and binding replacement
// for substituting fakes.
package grafttest

import (
	"context"

	"github.com/graftwire/graft"
)

// TB is the subset of testing.TB the helpers need. *testing.T and
// *testing.B satisfy it.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(func())
}

// New builds an injector for a test and closes it when the test finishes.
func New(tb TB, configure func(*graft.Config), opts ...graft.Option) *graft.Injector {
	tb.Helper()
	return NewInjector(tb, graft.NewConfig(configSlice(configure)...), opts...)
}

// NewInjector wraps an existing Config and closes the injector when the
// test finishes.
func NewInjector(tb TB, cfg *graft.Config, opts ...graft.Option) *graft.Injector {
	tb.Helper()

	in := graft.NewInjector(cfg, opts...)
	tb.Cleanup(func() {
		_ = in.Close(context.Background())
	})
	return in
}

func configSlice(configure func(*graft.Config)) []func(*graft.Config) {
	if configure == nil {
		return nil
	}
	return []func(*graft.Config){configure}
}

// MustInject resolves T or fails the test.
func MustInject[T any](tb TB, in *graft.Injector) T {
	tb.Helper()

	v, err := graft.Inject[T](in)
	if err != nil {
		tb.Fatalf("inject %s: %v", graft.KeyOf[T](), err)
	}
	return v
}

// MustInjectNamed resolves the named binding for T or fails the test.
func MustInjectNamed[T any](tb TB, in *graft.Injector, name string) T {
	tb.Helper()

	v, err := graft.InjectNamed[T](in, name)
	if err != nil {
		tb.Fatalf("inject %s: %v", graft.NamedKey[T](name), err)
	}
	return v
}

// Replace swaps the binding for T with a fixed value, dropping any cached
// instance so the next resolution sees the replacement. Bindings that
// resolve through a provider are replaced at the provider level, since
// providers outrank instances.
func Replace[T any](tb TB, in *graft.Injector, value T) {
	tb.Helper()

	key := graft.KeyOf[T]()
	cfg := in.Config()

	clearScope(cfg.ScopeFor(key))
	in.Forget(key)

	var err error
	if cfg.ProviderFor(key) != nil {
		err = cfg.RegisterProvider(key.Type, graft.NewInstanceProvider(value))
	} else {
		err = cfg.RegisterInstance(key.Type, value)
	}
	if err != nil {
		tb.Fatalf("replace %s: %v", key, err)
	}
}

// ReplaceProvider swaps the binding for T with a provider, for replacements
// that need per-resolution behavior.
func ReplaceProvider[T any](tb TB, in *graft.Injector, p graft.Provider) {
	tb.Helper()

	key := graft.KeyOf[T]()
	cfg := in.Config()

	clearScope(cfg.ScopeFor(key))
	in.Forget(key)

	if err := cfg.RegisterProvider(key.Type, p); err != nil {
		tb.Fatalf("replace provider %s: %v", key, err)
	}
}

// ReplaceNamed swaps the key binding for (T, name) with a fixed value.
func ReplaceNamed[T any](tb TB, in *graft.Injector, name string, value T) {
	tb.Helper()

	key := graft.NamedKey[T](name)
	cfg := in.Config()

	if kb, ok := cfg.KeyBindingFor(key); ok {
		clearScope(kb.Scope)
	}
	in.Forget(key)

	if err := cfg.RegisterKey(key, graft.NewInstanceProvider(value)); err != nil {
		tb.Fatalf("replace %s: %v", key, err)
	}
}

func clearScope(s graft.Scope) {
	switch sc := s.(type) {
	case *graft.SingletonScope:
		sc.Clear()
	case *graft.GlobalSingletonScope:
		sc.Clear()
	}
}

// RequireHas fails the test unless T is resolvable.
func RequireHas[T any](tb TB, in *graft.Injector) {
	tb.Helper()

	if !graft.HasBinding[T](in) {
		tb.Fatalf("no binding for %s", graft.KeyOf[T]())
	}
}

// RequireHasNamed fails the test unless the named binding for T exists.
func RequireHasNamed[T any](tb TB, in *graft.Injector, name string) {
	tb.Helper()

	if !graft.HasNamedBinding[T](in, name) {
		tb.Fatalf("no binding for %s", graft.NamedKey[T](name))
	}
}

// ResetGlobals wipes the process-wide singleton registry and the global
// scope cache. Call it from tests that exercise global lifetimes to keep
// them independent.
func ResetGlobals() {
	graft.Globals().Clear()
	graft.NewGlobalSingletonScope().Clear()
}
