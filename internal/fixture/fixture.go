// Package fixture provides discoverable transformer implementations used by
// the discovery tests. It doubles as the reference layout for packages that
// publish implementations: declare the types, then catalog them from init.
package fixture

import (
	"encoding/base64"
	"strings"

	"github.com/graftwire/graft"
)

// Transformer rewrites a payload string.
type Transformer interface {
	Transform(payload string) string
}

// UpperTransformer folds payloads to upper case.
type UpperTransformer struct {
	Applied int
}

func (t *UpperTransformer) Transform(payload string) string {
	t.Applied++
	return strings.ToUpper(payload)
}

// Base64Transformer encodes payloads as standard base64.
type Base64Transformer struct {
	Applied int
}

func (t *Base64Transformer) Transform(payload string) string {
	t.Applied++
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// hiddenTransformer is cataloged but unexported; discovery still sees it
// since reflection carries the name.
type hiddenTransformer struct{ Applied int }

func (t *hiddenTransformer) Transform(payload string) string {
	t.Applied++
	return payload
}

func init() {
	graft.RegisterImplementation[*UpperTransformer]()
	graft.RegisterImplementation[*Base64Transformer]()
	graft.RegisterImplementation[*hiddenTransformer]()
}
