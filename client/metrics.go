package client

import (
	"context"
	"errors"
	"time"

	"github.com/adamwoolhether/freesound/client/model"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics is nil when the client was built without WithMetrics; every
// method tolerates that.
type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	requests, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "freesound",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API submissions by request variant and outcome.",
		},
		[]string{"variant", "outcome"},
	))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "freesound",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Time from dispatch to resolution, decode included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"variant"},
	))
	if err != nil {
		return nil, err
	}

	inflight, err := register(reg, prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "freesound",
			Subsystem: "client",
			Name:      "requests_in_flight",
			Help:      "Submissions currently talking to the API.",
		},
	))
	if err != nil {
		return nil, err
	}

	return &metrics{requests: requests, duration: duration, inflight: inflight}, nil
}

// register reuses an identical collector already registered by another
// client sharing reg.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) start() func(variant string, err error) {
	if m == nil {
		return func(string, error) {}
	}

	m.inflight.Inc()
	began := time.Now()

	return func(variant string, err error) {
		m.inflight.Dec()
		m.duration.WithLabelValues(variant).Observe(time.Since(began).Seconds())
		m.requests.WithLabelValues(variant, outcome(err)).Inc()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrUnexpectedStatusCode):
		return "status"
	case errors.Is(err, model.ErrDecode):
		return "decode"
	default:
		return "error"
	}
}
