package netclient

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// FastHTTP issues requests through valyala/fasthttp using its pooled
// request and response objects. fasthttp has no context plumbing, so the
// context is honored through its deadline only.
type FastHTTP struct {
	networkHandler

	// Client overrides the underlying client; nil uses a shared default.
	Client *fasthttp.Client `graft:"-"`

	// Timeout bounds each request when the context carries no deadline.
	// Zero means 30 seconds.
	Timeout time.Duration
}

var defaultFastClient = &fasthttp.Client{}

// NewFastHTTP returns a client backed by fasthttp.
func NewFastHTTP() *FastHTTP {
	return &FastHTTP{}
}

func (c *FastHTTP) client() *fasthttp.Client {
	if c.Client != nil {
		return c.Client
	}
	return defaultFastClient
}

func (c *FastHTTP) deadline(ctx context.Context) time.Duration {
	if d, ok := ctx.Deadline(); ok {
		return time.Until(d)
	}
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 30 * time.Second
}

func (*FastHTTP) HandlerType() string { return "fasthttp" }

func (c *FastHTTP) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("network client: request must be non-nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := c.deadline(ctx)
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	freq := fasthttp.AcquireRequest()
	fresp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(freq)
	defer fasthttp.ReleaseResponse(fresp)

	freq.Header.SetMethod(req.method())
	freq.SetRequestURI(req.URL)
	for k, v := range req.Header {
		freq.Header.Set(k, v)
	}
	id := req.requestID()
	freq.Header.Set(HeaderRequestID, id)
	if len(req.Body) > 0 {
		freq.SetBody(req.Body)
	}

	if err := c.client().DoTimeout(freq, fresp, timeout); err != nil {
		return nil, err
	}

	out := &Response{
		StatusCode: fresp.StatusCode(),
		Header:     make(map[string]string),
		Body:       append([]byte(nil), fresp.Body()...),
		RequestID:  id,
	}
	fresp.Header.VisitAll(func(k, v []byte) {
		out.Header[string(k)] = string(v)
	})
	return out, nil
}

func (c *FastHTTP) Handle(ctx context.Context, req any) (any, error) {
	r, ok := req.(*Request)
	if !ok {
		return nil, fmt.Errorf("network client: expected *netclient.Request, got %T", req)
	}
	return c.Do(ctx, r)
}
