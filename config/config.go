// Package config reads process configuration for the freesound CLI from
// FREESOUND_* environment variables and turns it into client options.
// The client library itself never reads the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/adamwoolhether/freesound/client"
	"github.com/adamwoolhether/freesound/client/throttle"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. FREESOUND_TOKEN.
const Prefix = "FREESOUND"

// Config groups all tunables. Zero RatePerMinute disables throttling and
// zero MaxConcurrent lifts the concurrency cap.
type Config struct {
	Token       string `envconfig:"TOKEN"`
	AccessToken string `envconfig:"ACCESS_TOKEN"`
	BaseURL     string `envconfig:"BASE_URL" default:"https://freesound.org/apiv2"`
	UserAgent   string `envconfig:"USER_AGENT" default:"freesound-go"`

	Timeout       time.Duration `envconfig:"TIMEOUT"         default:"30s"`
	RatePerMinute int           `envconfig:"RATE_PER_MINUTE" default:"60"`
	Burst         int           `envconfig:"BURST"           default:"5"`
	MaxConcurrent int           `envconfig:"MAX_CONCURRENT"  default:"4"`

	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load populates Config from environment variables (prefix FREESOUND_).
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return Config{}, fmt.Errorf("processing env: %w", err)
	}
	return c, nil
}

// Options converts c into client options. An access token takes precedence
// over an API key since it grants a superset of endpoints.
func (c Config) Options(logger *slog.Logger) []client.Option {
	opts := []client.Option{
		client.WithBaseURL(c.BaseURL),
		client.WithTimeout(c.Timeout),
		client.WithMaxConcurrent(c.MaxConcurrent),
	}

	switch {
	case c.AccessToken != "":
		opts = append(opts, client.WithAccessToken(c.AccessToken))
	case c.Token != "":
		opts = append(opts, client.WithToken(c.Token))
	}

	if c.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(c.UserAgent))
	}

	if c.RatePerMinute > 0 {
		burst := c.Burst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, client.WithRateLimit(throttle.PerMinute(c.RatePerMinute, burst)))
	}

	if logger != nil {
		opts = append(opts, client.WithLogger(logger))
	}

	return opts
}

// Logger builds the process logger writing to w in the configured format
// and level.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", c.LogLevel, err)
	}

	hOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, hOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hOpts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
}
