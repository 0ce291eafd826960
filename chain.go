package graft

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	ireflect "github.com/graftwire/graft/internal/reflect"
)

// ChainCategory groups interchangeable handlers behind one lookup axis.
type ChainCategory string

const (
	ChainEncoding ChainCategory = "encoding"
	ChainHashing  ChainCategory = "hashing"
	ChainSorting  ChainCategory = "sorting"
	ChainNetwork  ChainCategory = "network"
)

// ChainHandler is a pluggable processing step resolved by category and
// either handler type or registered name.
type ChainHandler interface {
	ChainCategory() ChainCategory
	HandlerType() string
	Handle(ctx context.Context, req any) (any, error)
}

var chainHandlerType = reflect.TypeOf((*ChainHandler)(nil)).Elem()

type chainIndex struct {
	Category ChainCategory
	Name     string
}

func (ci chainIndex) String() string {
	return string(ci.Category) + ":" + ci.Name
}

// RegisterChainHandler binds a handler implementation type under its
// category and handler type string. Handlers default to singleton lifetime.
func (c *Config) RegisterChainHandler(category ChainCategory, handlerType string, impl reflect.Type, opts ...BindOption) error {
	if err := validateChainRegistration(category, handlerType, impl); err != nil {
		return err
	}

	idx := chainIndex{Category: category, Name: handlerType}
	c.chainByType[idx] = impl
	c.chainLifetimes[idx] = chainLifetime(opts)
	return nil
}

// RegisterChainHandlerByName binds a handler implementation type under a
// registered name, additionally filling the by-type table when the
// handler's own type string is not yet bound.
func (c *Config) RegisterChainHandlerByName(category ChainCategory, name string, impl reflect.Type, handlerType string, opts ...BindOption) error {
	if err := validateChainRegistration(category, name, impl); err != nil {
		return err
	}

	lt := chainLifetime(opts)
	c.chainByName[chainIndex{Category: category, Name: name}] = impl
	c.chainLifetimes[chainIndex{Category: category, Name: name}] = lt

	if handlerType != "" {
		byType := chainIndex{Category: category, Name: handlerType}
		if _, ok := c.chainByType[byType]; !ok {
			c.chainByType[byType] = impl
			c.chainLifetimes[byType] = lt
		}
	}
	return nil
}

// RegisterChainHandlerInstance binds a pre-built handler under a registered
// name and fills the by-type table from the handler's own type string when
// that slot is free.
func (c *Config) RegisterChainHandlerInstance(category ChainCategory, name string, handler ChainHandler) error {
	if category == "" {
		return errInvalidName("chain category must be a non-empty string")
	}
	if name == "" {
		return errInvalidName("chain handler name must be a non-empty string")
	}
	if handler == nil {
		return errInvalidBinding("chain handler instance must be non-nil")
	}

	c.chainInstances[chainIndex{Category: category, Name: name}] = handler

	byType := chainIndex{Category: category, Name: handler.HandlerType()}
	if _, ok := c.chainByType[byType]; !ok {
		c.chainByType[byType] = reflect.TypeOf(handler)
		c.chainLifetimes[byType] = LifetimeSingleton
	}
	return nil
}

func validateChainRegistration(category ChainCategory, name string, impl reflect.Type) error {
	if category == "" {
		return errInvalidName("chain category must be a non-empty string")
	}
	if name == "" {
		return errInvalidName("chain handler name must be a non-empty string")
	}
	if impl == nil {
		return errInvalidBinding("chain handler implementation must be a non-nil type")
	}
	if _, ok := ireflect.Implements(impl, chainHandlerType); !ok {
		return errInvalidBinding(fmt.Sprintf("%s does not implement ChainHandler", ireflect.TypeName(impl)))
	}
	return nil
}

func chainLifetime(opts []BindOption) Lifetime {
	bs := applyBindOptions(opts)
	if bs.singleton {
		return LifetimeSingleton
	}
	if bs.lifetimeSet {
		return bs.lifetime
	}
	return LifetimeSingleton
}

// InjectChainHandler resolves a handler by category and handler type
// string, caching it according to its registered lifetime.
func (in *Injector) InjectChainHandler(category ChainCategory, handlerType string) (ChainHandler, error) {
	idx := chainIndex{Category: category, Name: handlerType}

	if h, ok := in.config.chainInstances[idx]; ok {
		return h, nil
	}

	impl, ok := in.config.chainByType[idx]
	if !ok {
		return nil, errNameNotFound(
			fmt.Sprintf("%s chain handler", category), handlerType,
			in.chainNames(category, false),
		)
	}
	return in.chainInstantiate(idx, impl)
}

// InjectChainHandlerByName resolves a handler by category and registered
// name, preferring pre-built instances.
func (in *Injector) InjectChainHandlerByName(category ChainCategory, name string) (ChainHandler, error) {
	idx := chainIndex{Category: category, Name: name}

	if h, ok := in.config.chainInstances[idx]; ok {
		return h, nil
	}

	impl, ok := in.config.chainByName[idx]
	if !ok {
		return nil, errNameNotFound(
			fmt.Sprintf("%s chain handler", category), name,
			in.chainNames(category, true),
		)
	}
	return in.chainInstantiate(idx, impl)
}

func (in *Injector) chainInstantiate(idx chainIndex, impl reflect.Type) (ChainHandler, error) {
	lifetime := in.config.chainLifetimes[idx]

	build := func() (any, error) {
		rc := &resolution{}
		return in.instantiateType(rc, impl, nil)
	}

	switch lifetime {
	case LifetimeGlobalSingleton:
		v, err := Globals().GetOrCreate("chain:"+idx.String(), build)
		if err != nil {
			return nil, err
		}
		return v.(ChainHandler), nil

	case LifetimeSingleton:
		in.mu.Lock()
		if h, ok := in.chainSingletons[idx]; ok {
			in.mu.Unlock()
			return h, nil
		}
		in.mu.Unlock()

		v, err := build()
		if err != nil {
			return nil, err
		}
		h := v.(ChainHandler)

		in.mu.Lock()
		if cached, ok := in.chainSingletons[idx]; ok {
			in.mu.Unlock()
			return cached, nil
		}
		in.chainSingletons[idx] = h
		in.recordLocked(chainKey(idx), h)
		in.mu.Unlock()
		return h, nil

	default:
		v, err := build()
		if err != nil {
			return nil, err
		}
		return v.(ChainHandler), nil
	}
}

// chainNames lists the registered handler identifiers for a category, for
// not-found diagnostics. byName includes instance registrations, whose keys
// are names rather than handler type strings.
func (in *Injector) chainNames(category ChainCategory, byName bool) []string {
	seen := make(map[string]struct{})

	table := in.config.chainByType
	if byName {
		table = in.config.chainByName
	}
	for idx := range table {
		if idx.Category == category {
			seen[idx.Name] = struct{}{}
		}
	}
	if byName {
		for idx := range in.config.chainInstances {
			if idx.Category == category {
				seen[idx.Name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func chainKey(idx chainIndex) Key {
	return Key{Type: chainHandlerType, Qualifier: Named(idx.String())}
}

// ChainHandlers lists every registered identifier for a category across the
// by-type, by-name, and instance tables, sorted and deduplicated.
func (c *Config) ChainHandlers(category ChainCategory) []string {
	seen := make(map[string]struct{})
	for idx := range c.chainByType {
		if idx.Category == category {
			seen[idx.Name] = struct{}{}
		}
	}
	for idx := range c.chainByName {
		if idx.Category == category {
			seen[idx.Name] = struct{}{}
		}
	}
	for idx := range c.chainInstances {
		if idx.Category == category {
			seen[idx.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Handle resolves the named handler for category and runs it. It is the
// one-shot form of InjectChainHandlerByName followed by Handle.
func (in *Injector) Handle(ctx context.Context, category ChainCategory, name string, req any) (any, error) {
	h, err := in.InjectChainHandlerByName(category, name)
	if err != nil {
		h, err = in.InjectChainHandler(category, name)
	}
	if err != nil {
		return nil, err
	}
	return h.Handle(ctx, req)
}
