// Package netclient provides HTTP clients that plug into the injector as
// network chain handlers. Both clients speak the same transport-neutral
// Request/Response model; pick net/http for context plumbing or fasthttp
// for throughput.
package netclient

import (
	"context"

	"github.com/graftwire/graft"
)

// Client issues requests described by the transport-neutral Request model.
// Clients also satisfy graft.ChainHandler under the network category, where
// Handle expects a *Request and returns a *Response.
type Client interface {
	graft.ChainHandler
	Do(ctx context.Context, req *Request) (*Response, error)
}

// networkHandler pins the chain category for every client.
type networkHandler struct{}

func (networkHandler) ChainCategory() graft.ChainCategory {
	return graft.ChainNetwork
}

// Register binds both clients as named network chain handlers.
func Register(c *graft.Config) error {
	for _, cl := range []Client{NewHTTP(), NewFastHTTP()} {
		if err := c.RegisterChainHandlerInstance(graft.ChainNetwork, cl.HandlerType(), cl); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	graft.RegisterImplementation[*HTTP]()
	graft.RegisterImplementation[*FastHTTP]()
}
