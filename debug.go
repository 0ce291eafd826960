package graft

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	ireflect "github.com/graftwire/graft/internal/reflect"
)

// BindingInfo is an introspection snapshot of one binding.
type BindingInfo struct {
	Key      string
	Kind     string
	Scope    string
	Lifetime Lifetime
	Resolved bool
}

// Bindings snapshots every binding the injector can resolve, sorted by key.
func (in *Injector) Bindings() []BindingInfo {
	cfg := in.config
	infos := make([]BindingInfo, 0, cfg.Size())

	for key := range cfg.keySet() {
		info := BindingInfo{
			Key:      key.String(),
			Kind:     cfg.bindingKind(key),
			Scope:    scopeName(cfg.ScopeFor(key)),
			Lifetime: cfg.LifetimeFor(key),
		}
		if _, ok := in.cachedSingleton(key); ok {
			info.Resolved = true
		} else if _, ok := cfg.Instance(key); ok {
			info.Resolved = true
		} else if in.scopedCached(key) {
			info.Resolved = true
		} else if Globals().Has(key) {
			info.Resolved = true
		}
		infos = append(infos, info)
	}

	for iface, mb := range cfg.multis {
		infos = append(infos, BindingInfo{
			Key: typeKey(iface).String(),
			Kind: fmt.Sprintf("multibinding (%d set, %d list)",
				len(mb.setTypes)+len(mb.setInstances),
				len(mb.listTypes)+len(mb.listInstances)),
			Scope: "none",
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Key != infos[j].Key {
			return infos[i].Key < infos[j].Key
		}
		return infos[i].Kind < infos[j].Kind
	})
	return infos
}

func (c *Config) bindingKind(key Key) string {
	if _, ok := c.keyBindings[key]; ok {
		return "key"
	}
	if _, ok := c.providers[key]; ok {
		return "provider"
	}
	if _, ok := c.Instance(key); ok {
		return "instance"
	}
	if reg := c.registrations[key]; reg != nil {
		if reg.Factory != nil {
			return "factory"
		}
		return "type"
	}
	if c.hasPlaceholder(key) {
		return "type"
	}
	return "unknown"
}

func scopeName(s Scope) string {
	switch s.(type) {
	case nil:
		return "none"
	case NoScope, *NoScope:
		return "none"
	case *SingletonScope:
		return "singleton"
	case *GlobalSingletonScope:
		return "global_singleton"
	default:
		return ireflect.TypeName(reflect.TypeOf(s))
	}
}

// FprintBindings writes a human-readable binding listing. A filled marker
// means the binding has a resolved value cached somewhere.
func FprintBindings(w io.Writer, in *Injector) error {
	infos := in.Bindings()

	if _, err := fmt.Fprintf(w, "bindings (%d):\n", len(infos)); err != nil {
		return err
	}
	for _, info := range infos {
		marker := "○"
		if info.Resolved {
			marker = "●"
		}

		attrs := []string{info.Kind}
		if info.Scope != "none" {
			attrs = append(attrs, "scope="+info.Scope)
		}
		if info.Lifetime != LifetimeTransient {
			attrs = append(attrs, "lifetime="+info.Lifetime.String())
		}

		if _, err := fmt.Fprintf(w, " %s %s [%s]\n", marker, info.Key, strings.Join(attrs, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// SprintBindings renders the binding listing to a string.
func SprintBindings(in *Injector) string {
	var sb strings.Builder
	_ = FprintBindings(&sb, in)
	return sb.String()
}

// PrintBindings writes the binding listing to stdout.
func PrintBindings(in *Injector) {
	_ = FprintBindings(os.Stdout, in)
}

// WriteGraph exports the dependency edges observed so far in DOT format.
// Only resolutions that actually ran appear; the graph is diagnostic, not
// a validation pass.
func (in *Injector) WriteGraph(w io.Writer) error {
	return in.graph.WriteDOT(w, "graft")
}
