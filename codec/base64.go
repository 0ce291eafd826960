package codec

import (
	"context"
	"encoding/base64"
)

// Base64 encodes the inner codec's output as standard base64 text, for
// payloads that must survive text-only transports.
type Base64 struct {
	encodingHandler

	// Inner produces the raw payload; nil means passthrough.
	Inner Codec `graft:",optional"`
}

// NewBase64 wraps inner in base64 encoding. A nil inner passes bytes and
// strings through.
func NewBase64(inner Codec) *Base64 {
	return &Base64{Inner: inner}
}

func (c *Base64) inner() Codec {
	if c.Inner != nil {
		return c.Inner
	}
	return NewNoOp()
}

func (*Base64) EncodingType() string { return "base64" }
func (*Base64) HandlerType() string  { return "base64" }

func (c *Base64) Marshal(v any) ([]byte, error) {
	raw, err := c.inner().Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}

func (c *Base64) Unmarshal(data []byte, v any) error {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(raw, data)
	if err != nil {
		return err
	}
	return c.inner().Unmarshal(raw[:n], v)
}

func (c *Base64) Handle(_ context.Context, req any) (any, error) {
	return c.Marshal(req)
}
