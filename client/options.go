package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adamwoolhether/freesound/client/throttle"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the root of the Freesound APIv2.
const DefaultBaseURL = "https://freesound.org/apiv2"

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error

type options struct {
	baseURL       string
	authorization string
	transport     Transport
	logger        *slog.Logger
	maxConcurrent int
	tracer        trace.TracerProvider
	registerer    prometheus.Registerer

	// HTTP transport settings, rejected alongside a custom Transport.
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
}

func (o *options) httpConfigured() bool {
	return o.client != nil || o.rt != nil || o.timeout != nil || o.userAgent != "" || o.throttle != nil || o.noFollowRedirects
}

// WithToken authenticates with an API key, sent as "Authorization: Token <key>".
func WithToken(key string) Option {
	return func(o *options) error {
		if strings.TrimSpace(key) == "" {
			return errors.New("token must not be empty")
		}
		o.authorization = "Token " + key
		return nil
	}
}

// WithAccessToken authenticates with an OAuth2 access token, sent as
// "Authorization: Bearer <token>". Original file downloads require it.
func WithAccessToken(token string) Option {
	return func(o *options) error {
		if strings.TrimSpace(token) == "" {
			return errors.New("access token must not be empty")
		}
		o.authorization = "Bearer " + token
		return nil
	}
}

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(raw string) Option {
	return func(o *options) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base url %q must be absolute", raw)
		}
		o.baseURL = strings.TrimRight(u.String(), "/")
		return nil
	}
}

// WithTransport replaces the HTTP stack with a custom [Transport]. It cannot
// be combined with the options that configure the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(o *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = t
		return nil
	}
}

// WithHTTPClient replaces the [http.Client] used by the default transport.
// The client is copied, so later options never mutate the caller's value.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithRoundTripper sets a custom [http.RoundTripper] as the base of the
// default transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("round tripper must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		o.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per
// second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return WithRateLimit(throttle.PerSecond(rps, burst))
}

// WithRateLimit enables token-bucket rate limiting with an explicit
// [throttle.Config], e.g. throttle.PerMinute(60, 5).
func WithRateLimit(cfg throttle.Config) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(o *options) error {
		o.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithMaxConcurrent caps how many submissions run at once. Extra
// submissions wait for a slot or for their context to end. n <= 0 means
// no limit.
func WithMaxConcurrent(n int) Option {
	return func(o *options) error {
		o.maxConcurrent = n
		return nil
	}
}

// WithTracerProvider records a client span per submission.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracer = tp
		return nil
	}
}

// WithMetrics registers the client's request counters and latency histogram
// with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("registerer must not be nil")
		}
		o.registerer = reg
		return nil
	}
}
