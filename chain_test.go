package graft

import (
	"context"
	"errors"
	"strings"
	"testing"

	ireflect "github.com/graftwire/graft/internal/reflect"
)

type upperHandler struct {
	Calls int
}

func (*upperHandler) ChainCategory() ChainCategory { return ChainEncoding }
func (*upperHandler) HandlerType() string          { return "upper" }
func (h *upperHandler) Handle(_ context.Context, req any) (any, error) {
	h.Calls++
	s, ok := req.(string)
	if !ok {
		return nil, errors.New("upper: request must be a string")
	}
	return strings.ToUpper(s), nil
}

type reverseHandler struct {
	Calls int
}

func (*reverseHandler) ChainCategory() ChainCategory { return ChainEncoding }
func (*reverseHandler) HandlerType() string          { return "reverse" }
func (h *reverseHandler) Handle(_ context.Context, req any) (any, error) {
	h.Calls++
	s, ok := req.(string)
	if !ok {
		return nil, errors.New("reverse: request must be a string")
	}
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b), nil
}

func TestRegisterChainHandlerValidation(t *testing.T) {
	t.Parallel()

	c := NewConfig()
	impl := ireflect.TypeOf[*upperHandler]()

	if err := c.RegisterChainHandler("", "upper", impl); !IsInvalidName(err) {
		t.Fatalf("empty category: err = %v", err)
	}
	if err := c.RegisterChainHandler(ChainEncoding, "", impl); !IsInvalidName(err) {
		t.Fatalf("empty handler type: err = %v", err)
	}
	if err := c.RegisterChainHandler(ChainEncoding, "upper", nil); !IsInvalidBinding(err) {
		t.Fatalf("nil impl: err = %v", err)
	}
	if err := c.RegisterChainHandler(ChainEncoding, "db", ireflect.TypeOf[*injSQLite]()); !IsInvalidBinding(err) {
		t.Fatalf("non-handler impl: err = %v", err)
	}
	if err := c.RegisterChainHandler(ChainEncoding, "upper", impl); err != nil {
		t.Fatalf("valid registration: %v", err)
	}
}

func TestInjectChainHandlerByType(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		if err := c.RegisterChainHandler(ChainEncoding, "upper", ireflect.TypeOf[*upperHandler]()); err != nil {
			t.Fatal(err)
		}
	})

	h, err := in.InjectChainHandler(ChainEncoding, "upper")
	if err != nil {
		t.Fatalf("InjectChainHandler: %v", err)
	}
	out, err := h.Handle(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out != "ABC" {
		t.Fatalf("Handle = %v", out)
	}
}

func TestChainHandlerSingletonByDefault(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		if err := c.RegisterChainHandler(ChainEncoding, "upper", ireflect.TypeOf[*upperHandler]()); err != nil {
			t.Fatal(err)
		}
	})

	a, err := in.InjectChainHandler(ChainEncoding, "upper")
	if err != nil {
		t.Fatal(err)
	}
	b, err := in.InjectChainHandler(ChainEncoding, "upper")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("default chain lifetime must cache the handler")
	}
}

func TestChainHandlerTransient(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		err := c.RegisterChainHandler(ChainEncoding, "upper",
			ireflect.TypeOf[*upperHandler](), WithLifetime(LifetimeTransient))
		if err != nil {
			t.Fatal(err)
		}
	})

	a, _ := in.InjectChainHandler(ChainEncoding, "upper")
	b, _ := in.InjectChainHandler(ChainEncoding, "upper")
	if a == nil || a == b {
		t.Fatal("transient chain handlers must be rebuilt per injection")
	}
}

func TestRegisterByNameBackfillsType(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		err := c.RegisterChainHandlerByName(ChainEncoding, "shouty",
			ireflect.TypeOf[*upperHandler](), "upper")
		if err != nil {
			t.Fatal(err)
		}
	})

	if _, err := in.InjectChainHandlerByName(ChainEncoding, "shouty"); err != nil {
		t.Fatalf("by name: %v", err)
	}
	if _, err := in.InjectChainHandler(ChainEncoding, "upper"); err != nil {
		t.Fatalf("backfilled by type: %v", err)
	}
}

func TestBackfillDoesNotOverwrite(t *testing.T) {
	t.Parallel()

	c := NewConfig()
	if err := c.RegisterChainHandler(ChainEncoding, "upper", ireflect.TypeOf[*upperHandler]()); err != nil {
		t.Fatal(err)
	}
	// the by-name registration reuses the taken type slot without stealing it
	err := c.RegisterChainHandlerByName(ChainEncoding, "rev",
		ireflect.TypeOf[*reverseHandler](), "upper")
	if err != nil {
		t.Fatal(err)
	}

	in := NewInjector(c)
	h, err := in.InjectChainHandler(ChainEncoding, "upper")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := h.(*upperHandler); !ok {
		t.Fatalf("by-type slot overwritten: got %T", h)
	}
}

func TestChainHandlerInstanceWinsByName(t *testing.T) {
	t.Parallel()

	inst := &upperHandler{}
	in := newInjectorWith(t, func(c *Config) {
		if err := c.RegisterChainHandlerInstance(ChainEncoding, "custom", inst); err != nil {
			t.Fatal(err)
		}
	})

	h, err := in.InjectChainHandlerByName(ChainEncoding, "custom")
	if err != nil {
		t.Fatal(err)
	}
	if h != ChainHandler(inst) {
		t.Fatal("instance registration must return the registered object")
	}

	// the instance also backfills its handler type slot with its dynamic type
	byType, err := in.InjectChainHandler(ChainEncoding, "upper")
	if err != nil {
		t.Fatalf("backfilled type slot: %v", err)
	}
	if _, ok := byType.(*upperHandler); !ok {
		t.Fatalf("got %T", byType)
	}
}

func TestChainHandlerNotFound(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		if err := c.RegisterChainHandler(ChainEncoding, "upper", ireflect.TypeOf[*upperHandler]()); err != nil {
			t.Fatal(err)
		}
		if err := c.RegisterChainHandler(ChainEncoding, "reverse", ireflect.TypeOf[*reverseHandler]()); err != nil {
			t.Fatal(err)
		}
	})

	_, err := in.InjectChainHandler(ChainEncoding, "rot13")
	if !IsNameNotFound(err) {
		t.Fatalf("err = %v, want name not found", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "reverse, upper") {
		t.Fatalf("available handlers missing or unsorted: %q", msg)
	}
}

func TestHandleOneShot(t *testing.T) {
	t.Parallel()

	in := newInjectorWith(t, func(c *Config) {
		err := c.RegisterChainHandlerByName(ChainEncoding, "shouty",
			ireflect.TypeOf[*upperHandler](), "")
		if err != nil {
			t.Fatal(err)
		}
		if err := c.RegisterChainHandler(ChainEncoding, "reverse", ireflect.TypeOf[*reverseHandler]()); err != nil {
			t.Fatal(err)
		}
	})

	out, err := in.Handle(context.Background(), ChainEncoding, "shouty", "hi")
	if err != nil {
		t.Fatalf("Handle by name: %v", err)
	}
	if out != "HI" {
		t.Fatalf("Handle = %v", out)
	}

	// names falls back to the by-type table
	out, err = in.Handle(context.Background(), ChainEncoding, "reverse", "abc")
	if err != nil {
		t.Fatalf("Handle by type fallback: %v", err)
	}
	if out != "cba" {
		t.Fatalf("Handle = %v", out)
	}
}

func TestChainHandlersUnion(t *testing.T) {
	t.Parallel()

	c := NewConfig()
	if err := c.RegisterChainHandler(ChainEncoding, "upper", ireflect.TypeOf[*upperHandler]()); err != nil {
		t.Fatal(err)
	}
	err := c.RegisterChainHandlerByName(ChainEncoding, "rev",
		ireflect.TypeOf[*reverseHandler](), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.RegisterChainHandlerInstance(ChainEncoding, "custom", &upperHandler{}); err != nil {
		t.Fatal(err)
	}
	if err := c.RegisterChainHandler(ChainHashing, "fnv", ireflect.TypeOf[*upperHandler]()); err != nil {
		t.Fatal(err)
	}

	got := c.ChainHandlers(ChainEncoding)
	want := []string{"custom", "rev", "upper"}
	if len(got) != len(want) {
		t.Fatalf("ChainHandlers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ChainHandlers = %v, want %v", got, want)
		}
	}
}

func TestChainHandlerGlobalLifetime(t *testing.T) {
	in := newInjectorWith(t, func(c *Config) {
		err := c.RegisterChainHandler(ChainSorting, "global-upper-chain",
			ireflect.TypeOf[*upperHandler](), WithLifetime(LifetimeGlobalSingleton))
		if err != nil {
			t.Fatal(err)
		}
	})
	other := newInjectorWith(t, func(c *Config) {
		err := c.RegisterChainHandler(ChainSorting, "global-upper-chain",
			ireflect.TypeOf[*upperHandler](), WithLifetime(LifetimeGlobalSingleton))
		if err != nil {
			t.Fatal(err)
		}
	})

	a, err := in.InjectChainHandler(ChainSorting, "global-upper-chain")
	if err != nil {
		t.Fatal(err)
	}
	b, err := other.InjectChainHandler(ChainSorting, "global-upper-chain")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("global lifetime must share the handler across injectors")
	}
}
