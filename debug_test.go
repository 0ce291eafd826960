package graft

import (
	"strings"
	"testing"

	ireflect "github.com/graftwire/graft/internal/reflect"
)

func TestBindingsSnapshot(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		MustBindValue[injLogger](c, &injMemLogger{})
		MustBind[injDB, *injSQLite](c, AsSingleton())
		MustBindFactory[*midDep](c, func() *midDep { return &midDep{} })
		if err := BindNamedValue[injDB](c, "primary", &injSQLite{}); err != nil {
			t.Fatal(err)
		}
		if err := AddBinding[codecPlugin, jsonPlugin](c, true); err != nil {
			t.Fatal(err)
		}
	})

	infos := in.Bindings()
	byKey := map[string]BindingInfo{}
	for _, info := range infos {
		byKey[info.Key] = info
	}

	logKey := KeyOf[injLogger]().String()
	if byKey[logKey].Kind != "instance" || !byKey[logKey].Resolved {
		t.Fatalf("logger info = %+v", byKey[logKey])
	}

	dbKey := KeyOf[injDB]().String()
	db := byKey[dbKey]
	if db.Kind != "type" || db.Scope != "singleton" || db.Lifetime != LifetimeSingleton {
		t.Fatalf("db info = %+v", db)
	}
	if db.Resolved {
		t.Fatal("unresolved singleton must show as pending")
	}

	if byKey[KeyOf[*midDep]().String()].Kind != "factory" {
		t.Fatalf("factory info = %+v", byKey[KeyOf[*midDep]().String()])
	}

	named := byKey[NamedKey[injDB]("primary").String()]
	if named.Kind != "key" {
		t.Fatalf("named info = %+v", named)
	}

	multi := byKey[KeyOf[codecPlugin]().String()]
	if !strings.Contains(multi.Kind, "multibinding") || !strings.Contains(multi.Kind, "1 set") {
		t.Fatalf("multibinding info = %+v", multi)
	}

	for i := 1; i < len(infos); i++ {
		if infos[i-1].Key > infos[i].Key {
			t.Fatal("bindings must be sorted by key")
		}
	}
}

func TestBindingsResolvedAfterInjection(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		MustBind[injDB, *injSQLite](c, AsSingleton())
	})

	MustInject[injDB](in)

	for _, info := range in.Bindings() {
		if info.Key == KeyOf[injDB]().String() {
			if !info.Resolved {
				t.Fatal("resolved singleton must be marked")
			}
			return
		}
	}
	t.Fatal("binding missing from snapshot")
}

func TestBindingsResolvedThroughExplicitScope(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		MustBind[injDB, *injSQLite](c, WithScope(NewSingletonScope()))
	})

	MustInject[injDB](in)

	for _, info := range in.Bindings() {
		if info.Key == KeyOf[injDB]().String() {
			if !info.Resolved {
				t.Fatal("scope-cached binding must be marked resolved")
			}
			return
		}
	}
	t.Fatal("binding missing from snapshot")
}

func TestSprintBindingsMarkers(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		MustBindValue[injLogger](c, &injMemLogger{})
		MustBind[injDB, *injSQLite](c, AsSingleton())
	})

	out := SprintBindings(in)
	if !strings.HasPrefix(out, "bindings (2):") {
		t.Fatalf("header missing: %q", out)
	}
	if !strings.Contains(out, "● "+KeyOf[injLogger]().String()+" [instance]") {
		t.Fatalf("resolved marker missing: %q", out)
	}
	if !strings.Contains(out, "○ "+KeyOf[injDB]().String()) {
		t.Fatalf("pending marker missing: %q", out)
	}
	if !strings.Contains(out, "scope=singleton") || !strings.Contains(out, "lifetime=singleton") {
		t.Fatalf("attributes missing: %q", out)
	}
}

func TestWriteGraphRecordsResolutionEdges(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		MustBindValue[injLogger](c, &injMemLogger{})
		MustBindValue[injDB](c, &injSQLite{})
		MustBind[*wiredService, *wiredService](c)
	})

	MustInject[*wiredService](in)

	var sb strings.Builder
	if err := in.WriteGraph(&sb); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	dot := sb.String()
	if !strings.Contains(dot, "digraph graft") {
		t.Fatalf("header missing: %q", dot)
	}
	if !strings.Contains(dot, ireflect.TypeName(ireflect.TypeOf[*wiredService]())) {
		t.Fatalf("root node missing: %q", dot)
	}
	if !strings.Contains(dot, "->") {
		t.Fatalf("dependency edges missing: %q", dot)
	}
}
