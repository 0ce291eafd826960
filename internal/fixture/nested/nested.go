// Package nested holds transformer implementations below the fixture root,
// exercising the dot-qualified names discovery derives for subpackages.
package nested

import (
	"strings"

	"github.com/graftwire/graft"
)

// UpperTransformer shares its name with the fixture root implementation;
// discovery keeps them apart by prefixing the relative package path.
type UpperTransformer struct {
	Applied int
}

func (t *UpperTransformer) Transform(payload string) string {
	t.Applied++
	return strings.ToUpper(strings.TrimSpace(payload))
}

// ReverseTransformer reverses payload bytes.
type ReverseTransformer struct {
	Applied int
}

func (t *ReverseTransformer) Transform(payload string) string {
	t.Applied++
	b := []byte(payload)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func init() {
	graft.RegisterImplementation[*UpperTransformer]()
	graft.RegisterImplementation[*ReverseTransformer]()
}
