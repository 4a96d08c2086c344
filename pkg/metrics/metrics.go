// Copyright 2025 Certen Protocol
//
// Package metrics exposes Prometheus counters and histograms for the
// verifier's call volume, latency, and VO size, wired to the teacher's
// declared prometheus/client_golang dependency and its Config.MetricsAddr
// field.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so multiple Collectors (e.g. in tests)
// never collide on the default global registry.
type Collector struct {
	registry *prometheus.Registry

	verifyTotal   *prometheus.CounterVec
	verifySeconds *prometheus.HistogramVec
	voSizeBytes   prometheus.Histogram
}

// NewCollector builds and registers a Collector's metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		verifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vchainplus",
			Name:      "vo_verify_total",
			Help:      "Count of Verify calls by outcome.",
		}, []string{"outcome"}),
		verifySeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vchainplus",
			Name:      "vo_verify_seconds",
			Help:      "Verify call latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		voSizeBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vchainplus",
			Name:      "vo_size_bytes",
			Help:      "Estimated wire size of verified Verification Objects.",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 16),
		}),
	}

	reg.MustRegister(c.verifyTotal, c.verifySeconds, c.voSizeBytes)
	return c
}

// Outcome labels a completed Verify call.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFailure Outcome = "failure"
)

// Observe records one Verify call's outcome, latency, and VO size.
func (c *Collector) Observe(outcome Outcome, seconds float64, voSizeBytes int) {
	c.verifyTotal.WithLabelValues(string(outcome)).Inc()
	c.verifySeconds.WithLabelValues(string(outcome)).Observe(seconds)
	if outcome == OutcomeOK {
		c.voSizeBytes.Observe(float64(voSizeBytes))
	}
}

// Handler returns the HTTP handler to serve on GET /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
