package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/adamwoolhether/freesound/client/async"
	"github.com/adamwoolhether/freesound/client/model"
	"github.com/adamwoolhether/freesound/client/request"
	"github.com/adamwoolhether/freesound/client/throttle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/adamwoolhether/freesound/client"

// Client submits API requests asynchronously. Credentials and transport are
// fixed at Build time; a Client is safe for concurrent use.
type Client struct {
	transport     Transport
	baseURL       *url.URL
	authorization string
	logger        *slog.Logger
	executor      *async.Executor
	tracer        trace.Tracer
	metrics       *metrics
}

// Build creates a Client configured by optFns.
func Build(optFns ...Option) (*Client, error) {
	opts := options{baseURL: DefaultBaseURL}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	base, err := url.Parse(opts.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	client := &Client{
		baseURL:       base,
		authorization: opts.authorization,
		logger:        slog.Default(),
		tracer:        noop.NewTracerProvider().Tracer(tracerName),
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer.Tracer(tracerName)
	}

	if client.metrics, err = newMetrics(opts.registerer); err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	switch {
	case opts.transport != nil && opts.httpConfigured():
		return nil, errors.New("WithTransport cannot be combined with HTTP transport options")
	case opts.transport != nil:
		client.transport = opts.transport
	default:
		hc, err := client.httpClient(opts)
		if err != nil {
			return nil, err
		}
		client.transport = NewHTTPTransport(hc)
	}

	client.executor = async.NewExecutor(opts.maxConcurrent, client.logger)

	return client, nil
}

func (c *Client) httpClient(opts options) (*http.Client, error) {
	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case hc.Transport != nil:
		transport = hc.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return c.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	hc.Transport = transport

	return hc, nil
}

// Close stops accepting submissions and waits for in-flight work to resolve.
// Handles submitted afterwards resolve with [ErrExecutorShutdown].
func (c *Client) Close() {
	c.executor.Shutdown()
	c.executor.Wait()
}

// Wait blocks until every submitted request has resolved.
func (c *Client) Wait() {
	c.executor.Wait()
}

// Submit sends the request d describes on its own goroutine and returns a
// handle that resolves with decode's result, or with the transport, HTTP
// status or decode failure.
func Submit[T any](c *Client, ctx context.Context, d request.Descriptor, decode model.DecodeFunc[T]) *async.Handle[T] {
	return submit(c, ctx, d.Variant(), d.Method(), c.resolve(d), d.Headers(), decode)
}

func submit[T any](c *Client, ctx context.Context, variant, method, target string, headers map[string]string, decode model.DecodeFunc[T]) *async.Handle[T] {
	return async.Submit(c.executor, ctx, func(ctx context.Context) (T, error) {
		var val T

		err := c.observe(ctx, variant, method, target, func(ctx context.Context) error {
			return c.exec(ctx, method, target, headers, func(resp *Response) error {
				data, err := io.ReadAll(resp.Body)
				if err != nil {
					return fmt.Errorf("%w: reading body: %w", ErrTransport, err)
				}

				if val, err = model.Decode(data, decode); err != nil {
					return fmt.Errorf("decoding %s: %w", variant, err)
				}

				return nil
			})
		})

		return val, err
	})
}

// observe wraps fn in a client span and records its outcome in metrics.
func (c *Client) observe(ctx context.Context, variant, method, target string, fn func(ctx context.Context) error) error {
	ctx, span := c.tracer.Start(ctx, "freesound."+variant, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", target),
	)
	if id, ok := async.HandleID(ctx); ok {
		span.SetAttributes(attribute.String("freesound.request_id", id.String()))
	}

	done := c.metrics.start()
	err := fn(ctx)
	done(variant, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

// exec sends the request and hands fn the response once its status is
// 2xx. Unread body bytes are discarded before close.
func (c *Client) exec(ctx context.Context, method, target string, headers map[string]string, fn func(*Response) error) error {
	resp, err := c.transport.Send(ctx, method, target, c.header(ctx, target, headers))
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, target, err)
	}
	if resp == nil {
		return fmt.Errorf("%w: %s %s: nil response", ErrTransport, method, target)
	}
	if resp.Body == nil {
		resp.Body = http.NoBody
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return err
	}

	return nil
}

// header builds the outbound headers: the descriptor's own, then
// credentials for API hosts, a request id and trace context.
func (c *Client) header(ctx context.Context, target string, headers map[string]string) http.Header {
	h := make(http.Header, len(headers)+3)
	for k, v := range headers {
		h.Set(k, v)
	}

	if h.Get("Accept") == "" {
		h.Set("Accept", "application/json")
	}
	if c.authorization != "" && h.Get("Authorization") == "" && c.sameOrigin(target) {
		h.Set("Authorization", c.authorization)
	}
	if id, ok := async.HandleID(ctx); ok {
		h.Set("X-Request-ID", id.String())
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))

	return h
}

// resolve renders d against the base URL.
func (c *Client) resolve(d request.Descriptor) string {
	return c.baseURL.String() + "/" + d.URL()
}

// upgrade rewrites an http link on the API host to https when the base URL
// is https, so paging links keep their credentials without sending them in
// clear text. Other links are returned unchanged.
func (c *Client) upgrade(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host != c.baseURL.Host {
		return link
	}
	if u.Scheme == "http" && c.baseURL.Scheme == "https" {
		u.Scheme = "https"
		return u.String()
	}
	return link
}

// sameOrigin reports whether target is served by the API host over the
// base URL's scheme. Previews live on a CDN and never get credentials.
func (c *Client) sameOrigin(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == c.baseURL.Scheme && u.Host == c.baseURL.Host
}
