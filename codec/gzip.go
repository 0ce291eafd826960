package codec

import (
	"bytes"
	"context"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Gzip compresses the inner codec's output. Level follows the gzip package
// constants; the zero value means gzip.DefaultCompression.
type Gzip struct {
	encodingHandler

	// Inner produces the raw payload; nil means passthrough.
	Inner Codec `graft:",optional"`
	Level int
}

// NewGzip wraps inner in gzip compression at the default level.
func NewGzip(inner Codec) *Gzip {
	return &Gzip{Inner: inner, Level: gzip.DefaultCompression}
}

func (c *Gzip) inner() Codec {
	if c.Inner != nil {
		return c.Inner
	}
	return NewNoOp()
}

func (c *Gzip) level() int {
	if c.Level == 0 {
		return gzip.DefaultCompression
	}
	return c.Level
}

func (*Gzip) EncodingType() string { return "gzip" }
func (*Gzip) HandlerType() string  { return "gzip" }

func (c *Gzip) Marshal(v any) ([]byte, error) {
	raw, err := c.inner().Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, c.level())
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Gzip) Unmarshal(data []byte, v any) error {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return c.inner().Unmarshal(raw, v)
}

func (c *Gzip) Handle(_ context.Context, req any) (any, error) {
	return c.Marshal(req)
}
