// Package catalog holds the process-wide table of implementation types that
// discovery scans. Implementations add themselves once, usually from an
// init function, and the table only ever grows.
package catalog

import (
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Entry is one cataloged implementation type. PkgPath is the package the
// type is declared in, which is intrinsic to the reflect.Type: registering a
// re-exported alias still records the declaring package.
type Entry struct {
	Type    reflect.Type
	PkgPath string
	Name    string
}

type catalog struct {
	mu      sync.RWMutex
	entries map[reflect.Type]Entry
}

var global = &catalog{entries: make(map[reflect.Type]Entry)}

// Add records t in the catalog. Pointer types are normalized to their
// element so the same implementation registered as T and *T dedupes to one
// entry. Re-registration is a no-op.
func Add(t reflect.Type) {
	if t == nil {
		return
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if _, ok := global.entries[t]; ok {
		return
	}
	global.entries[t] = Entry{
		Type:    t,
		PkgPath: t.PkgPath(),
		Name:    t.Name(),
	}
}

// Under returns the cataloged entries declared in the package root, or in
// any package below it when recursive is set. Results are sorted by package
// path then name so scans are deterministic.
func Under(root string, recursive bool) []Entry {
	global.mu.RLock()
	defer global.mu.RUnlock()

	var out []Entry
	for _, e := range global.entries {
		if e.PkgPath == root {
			out = append(out, e)
			continue
		}
		if recursive && strings.HasPrefix(e.PkgPath, root+"/") {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PkgPath != out[j].PkgPath {
			return out[i].PkgPath < out[j].PkgPath
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Size returns the number of cataloged types.
func Size() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return len(global.entries)
}
