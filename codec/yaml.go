package codec

import (
	"context"

	"gopkg.in/yaml.v3"
)

// YAML encodes values as YAML documents.
type YAML struct {
	encodingHandler
}

// NewYAML returns a YAML codec.
func NewYAML() *YAML {
	return &YAML{}
}

func (*YAML) EncodingType() string { return "yaml" }
func (*YAML) HandlerType() string  { return "yaml" }

func (*YAML) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (*YAML) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (c *YAML) Handle(_ context.Context, req any) (any, error) {
	return c.Marshal(req)
}
