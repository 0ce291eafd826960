package graft

import (
	"fmt"
	"log/slog"
	"path"
	"reflect"
	"sort"
	"strings"

	"github.com/graftwire/graft/internal/catalog"
	ireflect "github.com/graftwire/graft/internal/reflect"
)

// RegisterImplementation catalogs T as discoverable. Call it from an init
// function in the package defining T; packages imported only for their
// implementations can then be pulled in with a blank import.
func RegisterImplementation[T any]() {
	catalog.Add(ireflect.TypeOf[T]())
}

type discoverSettings struct {
	pattern   string
	recursive bool
	lifetime  Lifetime
}

type DiscoverOption func(*discoverSettings)

// WithPattern filters discovered implementations by a path.Match pattern
// applied to the derived registration name.
func WithPattern(pattern string) DiscoverOption {
	return func(ds *discoverSettings) {
		ds.pattern = pattern
	}
}

// WithRecursive controls whether subpackages of the module root are
// scanned. Default true.
func WithRecursive(recursive bool) DiscoverOption {
	return func(ds *discoverSettings) {
		ds.recursive = recursive
	}
}

// WithDiscoveredLifetime sets the lifetime applied to each discovered
// implementation's registration. Default LifetimeSingleton.
func WithDiscoveredLifetime(lt Lifetime) DiscoverOption {
	return func(ds *discoverSettings) {
		ds.lifetime = lt
	}
}

type moduleRegistration struct {
	root      string
	pattern   string
	recursive bool
	lifetime  Lifetime
}

// RegisterModule marks iface as discoverable under the given root import
// path and registers every cataloged implementation found there, each under
// the Key (iface, Named(name)) for its derived name. With several
// implementations the plain binding for iface ends up at the last one in
// name order; the rest stay reachable through their named keys.
func (c *Config) RegisterModule(iface reflect.Type, root string, opts ...DiscoverOption) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return errInvalidBinding("module interface must be a non-nil interface type")
	}
	if root == "" {
		return errInvalidName("module root must be a non-empty import path")
	}

	ds := discoverSettings{recursive: true, lifetime: LifetimeSingleton}
	for _, opt := range opts {
		if opt != nil {
			opt(&ds)
		}
	}

	m := moduleRegistration{root: root, pattern: ds.pattern, recursive: ds.recursive, lifetime: ds.lifetime}
	impls, err := c.discover(iface, m)
	if err != nil {
		return err
	}
	c.modules[iface] = m

	names := make([]string, 0, len(impls))
	for name := range impls {
		names = append(names, name)
	}
	sort.Strings(names)

	var keyOpts []BindOption
	switch m.lifetime {
	case LifetimeSingleton:
		keyOpts = append(keyOpts, WithScope(NewSingletonScope()))
	case LifetimeGlobalSingleton:
		keyOpts = append(keyOpts, WithScope(NewGlobalSingletonScope()))
	}

	for _, name := range names {
		if err := c.Register(iface, impls[name], WithLifetime(m.lifetime)); err != nil {
			return err
		}
		if err := c.RegisterKey(Key{Type: iface, Qualifier: Named(name)}, impls[name], keyOpts...); err != nil {
			return err
		}
		slog.Debug("discovered implementation",
			"interface", ireflect.TypeName(iface), "name", name,
			"type", ireflect.TypeName(impls[name]))
	}
	return nil
}

// DiscoverImplementations re-scans the catalog for iface's registered
// module and returns the name-to-type mapping. An interface never
// registered as a module yields an empty map.
func (c *Config) DiscoverImplementations(iface reflect.Type) (map[string]reflect.Type, error) {
	m, ok := c.modules[iface]
	if !ok {
		return map[string]reflect.Type{}, nil
	}
	return c.discover(iface, m)
}

func (c *Config) discover(iface reflect.Type, m moduleRegistration) (map[string]reflect.Type, error) {
	entries := catalog.Under(m.root, m.recursive)
	if len(entries) == 0 {
		return nil, errDiscoveryFailed(fmt.Sprintf(
			"no implementations cataloged under %q; packages register via RegisterImplementation at init",
			m.root,
		), nil)
	}

	impls := make(map[string]reflect.Type)
	for _, e := range entries {
		if e.Name == "" {
			slog.Debug("skipping unnamed catalog entry", "package", e.PkgPath)
			continue
		}
		if e.Type.Kind() == reflect.Interface {
			continue
		}
		form, ok := ireflect.Implements(e.Type, iface)
		if !ok {
			continue
		}

		name := discoveryName(m.root, e)
		if m.pattern != "" {
			matched, err := path.Match(m.pattern, name)
			if err != nil {
				return nil, errInvalidName(fmt.Sprintf("invalid discovery pattern %q", m.pattern))
			}
			if !matched {
				continue
			}
		}
		impls[name] = form
	}
	return impls, nil
}

// discoveryName derives the registration name: the bare type name at the
// module root, or the dot-joined relative package path prefix below it.
func discoveryName(root string, e catalog.Entry) string {
	if e.PkgPath == root {
		return e.Name
	}
	rel := strings.TrimPrefix(e.PkgPath, root+"/")
	return strings.ReplaceAll(rel, "/", ".") + "." + e.Name
}

// InjectByName resolves a discovered implementation type by its derived
// name. It returns the type, not an instance; pass it to Inject or
// Register as needed.
func (in *Injector) InjectByName(iface reflect.Type, name string) (reflect.Type, error) {
	if iface == nil || iface.Kind() != reflect.Interface {
		return nil, errInvalidBinding("discovery target must be a non-nil interface type")
	}

	impls, err := in.config.DiscoverImplementations(iface)
	if err != nil {
		return nil, err
	}
	if impl, ok := impls[name]; ok {
		return impl, nil
	}

	available := make([]string, 0, len(impls))
	for n := range impls {
		available = append(available, n)
	}
	sort.Strings(available)
	return nil, errNameNotFound(
		fmt.Sprintf("implementation of %s", ireflect.TypeName(iface)), name, available,
	)
}

// DiscoverImplementationsFor is DiscoverImplementations for interface I.
func DiscoverImplementationsFor[I any](c *Config) (map[string]reflect.Type, error) {
	return c.DiscoverImplementations(ireflect.TypeOf[I]())
}
