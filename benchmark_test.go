package graft

import (
	"context"
	"fmt"
	"testing"
)

type benchLeaf struct {
	tag string
}

type benchStore struct {
	Leaf *benchLeaf
}

type benchAPI struct {
	Store *benchStore
}

type benchSvc struct {
	id int
}

func (s *benchSvc) Start(context.Context) error { return nil }
func (s *benchSvc) Stop(context.Context) error  { return nil }

func BenchmarkInjectSingleton(b *testing.B) {
	in := New(func(c *Config) {
		MustBind[*benchLeaf, *benchLeaf](c, AsSingleton())
	})
	if _, err := Inject[*benchLeaf](in); err != nil {
		b.Fatalf("warmup: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Inject[*benchLeaf](in)
	}
}

func BenchmarkInjectTransient(b *testing.B) {
	in := New(func(c *Config) {
		MustBind[*benchLeaf, *benchLeaf](c)
	})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Inject[*benchLeaf](in)
	}
}

func BenchmarkInjectChain(b *testing.B) {
	in := New(func(c *Config) {
		MustBind[*benchLeaf, *benchLeaf](c)
		MustBind[*benchStore, *benchStore](c)
		MustBind[*benchAPI, *benchAPI](c)
	})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Inject[*benchAPI](in)
	}
}

func BenchmarkInjectNamed(b *testing.B) {
	in := New(func(c *Config) {
		if err := BindNamedValue[*benchLeaf](c, "hot", &benchLeaf{tag: "hot"}); err != nil {
			b.Fatal(err)
		}
	})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = InjectNamed[*benchLeaf](in, "hot")
	}
}

func BenchmarkStartup_10(b *testing.B)  { benchmarkStartup(b, 10) }
func BenchmarkStartup_50(b *testing.B)  { benchmarkStartup(b, 50) }
func BenchmarkShutdown_10(b *testing.B) { benchmarkShutdown(b, 10) }
func BenchmarkShutdown_50(b *testing.B) { benchmarkShutdown(b, 50) }

func newBenchLifecycle(b *testing.B, count int) *Injector {
	b.Helper()

	in := New(func(c *Config) {
		for j := 0; j < count; j++ {
			name := fmt.Sprintf("svc_%d", j)
			if err := BindNamed[*benchSvc, *benchSvc](c, name, WithScope(NewSingletonScope())); err != nil {
				b.Fatal(err)
			}
		}
	})
	for j := 0; j < count; j++ {
		MustInjectNamed[*benchSvc](in, fmt.Sprintf("svc_%d", j))
	}
	return in
}

func benchmarkStartup(b *testing.B, count int) {
	b.ReportAllocs()

	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		in := newBenchLifecycle(b, count)
		b.StartTimer()
		if err := in.Start(ctx); err != nil {
			b.Fatal(err)
		}
		b.StopTimer()
		_ = in.Close(ctx)
		b.StartTimer()
	}
}

func benchmarkShutdown(b *testing.B, count int) {
	b.ReportAllocs()

	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		in := newBenchLifecycle(b, count)
		if err := in.Start(ctx); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if err := in.Close(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
