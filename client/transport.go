package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Transport performs one request and returns the raw response. Implementations
// must be safe for concurrent use; the Client calls Send from many goroutines.
// The caller closes Response.Body.
type Transport interface {
	Send(ctx context.Context, method, url string, header http.Header) (*Response, error)
}

// Response is the raw outcome of a [Transport.Send].
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
	// ContentLength is -1 when unknown.
	ContentLength int64
}

// TransportFunc adapts a function into a [Transport].
type TransportFunc func(ctx context.Context, method, url string, header http.Header) (*Response, error)

func (f TransportFunc) Send(ctx context.Context, method, url string, header http.Header) (*Response, error) {
	return f(ctx, method, url, header)
}

// HTTPTransport sends requests with an *http.Client.
type HTTPTransport struct {
	c *http.Client
}

// NewHTTPTransport returns a Transport backed by hc, or by
// [http.DefaultClient] when hc is nil.
func NewHTTPTransport(hc *http.Client) *HTTPTransport {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPTransport{c: hc}
}

func (t *HTTPTransport) Send(ctx context.Context, method, url string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}
	req.Header = header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}

	resp, err := t.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}

	return &Response{
		StatusCode:    resp.StatusCode,
		Header:        resp.Header,
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
	}, nil
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
