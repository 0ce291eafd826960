// Package codec provides payload codecs that plug into the injector as
// encoding chain handlers. Every codec is cataloged for discovery at init,
// so RegisterModule over the Codec interface finds them all.
package codec

import (
	"github.com/graftwire/graft"
)

// Codec marshals values to bytes and back. Codecs also satisfy
// graft.ChainHandler under the encoding category, where Handle marshals
// the request.
type Codec interface {
	graft.ChainHandler
	EncodingType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// encodingHandler pins the chain category for every codec.
type encodingHandler struct{}

func (encodingHandler) ChainCategory() graft.ChainCategory {
	return graft.ChainEncoding
}

// Builtin returns one instance of each standalone codec. Wrapping codecs
// (Base64, Gzip) are built explicitly around an inner codec.
func Builtin() []Codec {
	return []Codec{
		NewJSON(),
		NewYAML(),
		NewXML(),
		NewGob(),
		NewNoOp(),
	}
}

// Register binds every standalone codec as a named encoding chain handler.
func Register(c *graft.Config) error {
	for _, cd := range Builtin() {
		if err := c.RegisterChainHandlerInstance(graft.ChainEncoding, cd.EncodingType(), cd); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	graft.RegisterImplementation[*JSON]()
	graft.RegisterImplementation[*YAML]()
	graft.RegisterImplementation[*XML]()
	graft.RegisterImplementation[*Gob]()
	graft.RegisterImplementation[*NoOp]()
	graft.RegisterImplementation[*Base64]()
	graft.RegisterImplementation[*Gzip]()
}
