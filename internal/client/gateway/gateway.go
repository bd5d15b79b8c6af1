// Package gateway defines the capability the data-access layer uses to reach
// the remote REST backend, plus a net/http implementation of it.
//
// The layer above (caches, session) decides what to send and how to interpret
// status codes; the gateway only moves bytes. Transport policy such as
// timeouts or TLS configuration belongs to the injected *http.Client.
package gateway

import (
	"context"
	"net/http"
)

// Request describes one call to the backend. Path may carry a query string.
type Request struct {
	Method      string
	Path        string
	Header      http.Header
	ContentType string
	Body        []byte
}

// SetHeader sets a header on the request, initializing the map when needed.
func (r *Request) SetHeader(key, value string) {
	if r.Header == nil {
		r.Header = http.Header{}
	}
	r.Header.Set(key, value)
}

// Response is the remote status code and the raw body.
type Response struct {
	Status int
	Body   []byte
}

// Gateway sends a request and returns the remote response. A non-nil error
// means the call never produced a status (transport failure); status-level
// failures are returned in Response and interpreted by the caller.
type Gateway interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}
