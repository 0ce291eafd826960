package netclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTP issues requests through net/http. The caller's context governs
// cancellation and deadlines.
type HTTP struct {
	networkHandler

	// Client overrides the underlying client; nil uses a shared default
	// with a 30 second timeout.
	Client *http.Client `graft:"-"`
}

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// NewHTTP returns a client backed by net/http.
func NewHTTP() *HTTP {
	return &HTTP{}
}

func (c *HTTP) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return defaultHTTPClient
}

func (*HTTP) HandlerType() string { return "http" }

func (c *HTTP) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("network client: request must be non-nil")
	}

	hreq, err := http.NewRequestWithContext(ctx, req.method(), req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for k, v := range req.Header {
		hreq.Header.Set(k, v)
	}
	id := req.requestID()
	hreq.Header.Set(HeaderRequestID, id)

	hresp, err := c.client().Do(hreq)
	if err != nil {
		return nil, err
	}
	defer hresp.Body.Close()

	body, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, err
	}

	out := &Response{
		StatusCode: hresp.StatusCode,
		Header:     make(map[string]string, len(hresp.Header)),
		Body:       body,
		RequestID:  id,
	}
	for k := range hresp.Header {
		out.Header[k] = hresp.Header.Get(k)
	}
	return out, nil
}

func (c *HTTP) Handle(ctx context.Context, req any) (any, error) {
	r, ok := req.(*Request)
	if !ok {
		return nil, fmt.Errorf("network client: expected *netclient.Request, got %T", req)
	}
	return c.Do(ctx, r)
}
