package codec

import (
	"context"
	"encoding/xml"
)

// XML encodes values as XML.
type XML struct {
	encodingHandler

	// Indent pretty-prints output when non-empty.
	Indent string
}

// NewXML returns a compact XML codec.
func NewXML() *XML {
	return &XML{}
}

func (*XML) EncodingType() string { return "xml" }
func (*XML) HandlerType() string  { return "xml" }

func (c *XML) Marshal(v any) ([]byte, error) {
	if c.Indent != "" {
		return xml.MarshalIndent(v, "", c.Indent)
	}
	return xml.Marshal(v)
}

func (*XML) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

func (c *XML) Handle(_ context.Context, req any) (any, error) {
	return c.Marshal(req)
}
