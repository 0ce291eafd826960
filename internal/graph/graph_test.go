package graph

import (
	"strings"
	"testing"
)

func TestAddEdge(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("a", "b") // duplicate
	g.AddNode("lonely")

	nodes := g.Nodes()
	want := []string{"a", "b", "c", "lonely"}
	if len(nodes) != len(want) {
		t.Fatalf("nodes = %v, want %v", nodes, want)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Fatalf("nodes = %v, want %v", nodes, want)
		}
	}

	edges := g.Edges()
	if deps := edges["a"]; len(deps) != 2 || deps[0] != "b" || deps[1] != "c" {
		t.Fatalf("edges[a] = %v", deps)
	}
}

func TestWriteDOT(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("svc", "db")
	g.AddEdge("svc", "cache")

	var sb strings.Builder
	if err := g.WriteDOT(&sb, "deps"); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}

	out := sb.String()
	for _, want := range []string{
		`digraph "deps" {`,
		`"svc" -> "db";`,
		`"svc" -> "cache";`,
		"}",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConcurrentWrites(t *testing.T) {
	t.Parallel()

	g := New()
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				g.AddEdge("hub", "spoke")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	if deps := g.Edges()["hub"]; len(deps) != 1 || deps[0] != "spoke" {
		t.Fatalf("edges[hub] = %v", deps)
	}
}
