package graft

import (
	"reflect"
	"strings"
	"testing"
)

type keyTestIface interface {
	DoWork() string
}

type keyTestImpl struct{}

func (keyTestImpl) DoWork() string { return "work" }

func TestKeyEquality(t *testing.T) {
	t.Parallel()

	if KeyOf[keyTestIface]() != KeyOf[keyTestIface]() {
		t.Fatal("unqualified keys for the same type must be equal")
	}
	if NamedKey[keyTestIface]("a") != NamedKey[keyTestIface]("a") {
		t.Fatal("named keys with the same name must be equal")
	}
	if NamedKey[keyTestIface]("a") == NamedKey[keyTestIface]("b") {
		t.Fatal("different names must produce different keys")
	}
	if KeyOf[keyTestIface]() == NamedKey[keyTestIface]("a") {
		t.Fatal("qualified and unqualified keys must differ")
	}
	if KeyOf[keyTestIface]() == KeyOf[keyTestImpl]() {
		t.Fatal("different types must produce different keys")
	}
}

func TestKeyAsMapKey(t *testing.T) {
	t.Parallel()

	m := map[Key]int{
		KeyOf[keyTestIface]():         1,
		NamedKey[keyTestIface]("two"): 2,
	}
	if m[KeyOf[keyTestIface]()] != 1 {
		t.Fatal("lookup by freshly built unqualified key failed")
	}
	if m[NamedKey[keyTestIface]("two")] != 2 {
		t.Fatal("lookup by freshly built named key failed")
	}
}

func TestKeyString(t *testing.T) {
	t.Parallel()

	plain := KeyOf[keyTestIface]().String()
	if !strings.HasPrefix(plain, "Key(") || !strings.Contains(plain, "keyTestIface") {
		t.Fatalf("plain key string = %q", plain)
	}

	named := NamedKey[keyTestIface]("primary").String()
	if !strings.Contains(named, `Named("primary")`) {
		t.Fatalf("named key string = %q", named)
	}
}

func TestKeyFor(t *testing.T) {
	t.Parallel()

	k, err := KeyFor(reflect.TypeOf(keyTestImpl{}), Named("x"))
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	if k != NamedKey[keyTestImpl]("x") {
		t.Fatalf("KeyFor = %v", k)
	}

	if _, err := KeyFor(nil, nil); !IsInvalidBinding(err) {
		t.Fatalf("KeyFor(nil) error = %v, want invalid binding", err)
	}
}
