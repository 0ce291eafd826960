package codec

import (
	"context"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON encodes values as JSON via json-iterator, wire compatible with
// encoding/json.
type JSON struct {
	encodingHandler

	// Indent pretty-prints output when non-empty.
	Indent string
}

// NewJSON returns a compact JSON codec.
func NewJSON() *JSON {
	return &JSON{}
}

func (*JSON) EncodingType() string { return "json" }
func (*JSON) HandlerType() string  { return "json" }

func (c *JSON) Marshal(v any) ([]byte, error) {
	if c.Indent != "" {
		return jsonAPI.MarshalIndent(v, "", c.Indent)
	}
	return jsonAPI.Marshal(v)
}

func (*JSON) Unmarshal(data []byte, v any) error {
	return jsonAPI.Unmarshal(data, v)
}

func (c *JSON) Handle(_ context.Context, req any) (any, error) {
	return c.Marshal(req)
}
