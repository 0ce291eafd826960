package codec

import (
	"bytes"
	"context"
	"encoding/gob"
)

// Gob encodes values with encoding/gob. Both sides must agree on the
// concrete types involved.
type Gob struct {
	encodingHandler
}

// NewGob returns a gob codec.
func NewGob() *Gob {
	return &Gob{}
}

func (*Gob) EncodingType() string { return "gob" }
func (*Gob) HandlerType() string  { return "gob" }

func (*Gob) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (*Gob) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (c *Gob) Handle(_ context.Context, req any) (any, error) {
	return c.Marshal(req)
}
