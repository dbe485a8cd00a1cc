// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the instrumentation for the matching engine. A fresh
// registry per instance keeps tests isolated from each other.
type Metrics struct {
	registry *prometheus.Registry

	SubmissionsTotal prometheus.Counter
	SubmissionErrors prometheus.Counter
	MatchDuration    prometheus.Histogram
	CandidatesRanked prometheus.Histogram
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SubmissionsTotal: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "civimatch",
			Name:      "submissions_total",
			Help:      "Number of voter submissions scored and persisted.",
		}),
		SubmissionErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "civimatch",
			Name:      "submission_errors_total",
			Help:      "Number of voter submissions rejected or failed.",
		}),
		MatchDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "civimatch",
			Name:      "match_duration_seconds",
			Help:      "Time to score, rank and persist one submission.",
			Buckets:   prometheus.DefBuckets,
		}),
		CandidatesRanked: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "civimatch",
			Name:      "candidates_ranked",
			Help:      "Candidates ranked per submission.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
	}
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
