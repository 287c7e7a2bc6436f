package throttle

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config sets the token bucket: Every is the interval at which one token is
// refilled and Burst the bucket size.
type Config struct {
	Every time.Duration
	Burst int
}

// PerSecond returns a Config allowing rps requests per second.
func PerSecond(rps, burst int) Config {
	if rps <= 0 {
		return Config{Burst: burst}
	}
	return Config{Every: time.Second / time.Duration(rps), Burst: burst}
}

// PerMinute returns a Config allowing n requests per minute, the unit the
// Freesound API publishes its limits in.
func PerMinute(n, burst int) Config {
	if n <= 0 {
		return Config{Burst: burst}
	}
	return Config{Every: time.Minute / time.Duration(n), Burst: burst}
}

// Validate reports whether both the refill interval and burst are positive.
func (c Config) Validate() error {
	if c.Every <= 0 || c.Burst <= 0 {
		return fmt.Errorf("interval[%s] and burst[%d] %w", c.Every, c.Burst, ErrMustNotBeZero)
	}
	return nil
}

// throttle is an http.RoundTripper that holds each request until the
// limiter grants it a token.
type throttle struct {
	limiter *rate.Limiter
	cfg     Config
	next    http.RoundTripper
	logFn   func() *slog.Logger
}

// NewRoundTripper wraps next with a token bucket limiter. logFn resolves the
// logger at request time; when it returns nil nothing is logged.
func NewRoundTripper(cfg Config, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if next == nil {
		next = http.DefaultTransport
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	t := &throttle{
		limiter: rate.NewLimiter(rate.Every(cfg.Every), cfg.Burst),
		cfg:     cfg,
		next:    next,
		logFn:   logFn,
	}

	return t, nil
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	var waited time.Duration
	logger := t.logFn()
	if logger != nil && t.limiter.Tokens() < 1 {
		logger.Debug("throttle tokens exhausted", "every", t.cfg.Every, "burst", t.cfg.Burst, "path", r.URL.Path)

		defer func() {
			logger.Debug("throttle wait complete", "waited", waited.String(), "path", r.URL.Path)
		}()
	}

	start := time.Now()
	err := t.limiter.Wait(ctx)
	waited = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return t.next.RoundTrip(r)
}
