// Package graph records the dependency edges observed during resolution so
// they can be reported after the fact. It is a diagnostic aid only: the
// resolver never consults it.
package graph

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

type Graph struct {
	mu    sync.RWMutex
	nodes map[string]struct{}
	edges map[string]map[string]struct{}
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[string]map[string]struct{}),
	}
}

// AddNode records a node with no edges yet.
func (g *Graph) AddNode(node string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[node] = struct{}{}
}

// AddEdge records that from depended on to during a resolution.
func (g *Graph) AddEdge(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	set, ok := g.edges[from]
	if !ok {
		set = make(map[string]struct{})
		g.edges[from] = set
	}
	set[to] = struct{}{}
}

// Nodes returns all recorded nodes, sorted.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// Edges returns the recorded adjacency as sorted slices.
func (g *Graph) Edges() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string][]string, len(g.edges))
	for from, set := range g.edges {
		deps := make([]string, 0, len(set))
		for to := range set {
			deps = append(deps, to)
		}
		sort.Strings(deps)
		out[from] = deps
	}
	return out
}

// WriteDOT renders the recorded graph in Graphviz DOT form.
func (g *Graph) WriteDOT(w io.Writer, name string) error {
	if _, err := fmt.Fprintf(w, "digraph %q {\n", name); err != nil {
		return err
	}

	for _, node := range g.Nodes() {
		if _, err := fmt.Fprintf(w, "  %q;\n", node); err != nil {
			return err
		}
	}

	edges := g.Edges()
	froms := make([]string, 0, len(edges))
	for from := range edges {
		froms = append(froms, from)
	}
	sort.Strings(froms)

	for _, from := range froms {
		for _, to := range edges[from] {
			if _, err := fmt.Fprintf(w, "  %q -> %q;\n", from, to); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
