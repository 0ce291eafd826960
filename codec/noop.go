package codec

import (
	"context"
	"fmt"
)

// NoOp passes byte and string payloads through unchanged. Useful as the
// inner codec of a wrapper when the payload is already encoded.
type NoOp struct {
	encodingHandler
}

// NewNoOp returns a passthrough codec.
func NewNoOp() *NoOp {
	return &NoOp{}
}

func (*NoOp) EncodingType() string { return "noop" }
func (*NoOp) HandlerType() string  { return "noop" }

func (*NoOp) Marshal(v any) ([]byte, error) {
	switch p := v.(type) {
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("noop codec: cannot pass through %T", v)
	}
}

func (*NoOp) Unmarshal(data []byte, v any) error {
	switch out := v.(type) {
	case *[]byte:
		*out = data
		return nil
	case *string:
		*out = string(data)
		return nil
	default:
		return fmt.Errorf("noop codec: cannot decode into %T", v)
	}
}

func (c *NoOp) Handle(_ context.Context, req any) (any, error) {
	return c.Marshal(req)
}
