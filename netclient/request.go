package netclient

import (
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the per-request correlation ID.
// Clients honor a caller-supplied value and generate a UUID v4 otherwise.
const HeaderRequestID = "X-Request-ID"

// Request describes one HTTP call independent of the transport.
type Request struct {
	// Method defaults to GET when empty.
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}

func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// requestID returns the caller-supplied correlation ID or a fresh UUID v4.
func (r *Request) requestID() string {
	if id := r.Header[HeaderRequestID]; id != "" {
		return id
	}
	return uuid.New().String()
}

// Response is the transport-neutral result of a request. Non-2xx statuses
// are data, not errors; check OK or StatusCode.
type Response struct {
	StatusCode int
	Header     map[string]string
	Body       []byte

	// RequestID is the correlation ID the request went out with.
	RequestID string
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
