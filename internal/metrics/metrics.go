// Package metrics exposes Prometheus counters for the monitoring session.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics.
type Metrics struct {
	FramesRead       prometheus.Counter
	FramesClassified prometheus.Counter

	Detections           *prometheus.CounterVec // by resolved state
	TransitionsCommitted *prometheus.CounterVec // by new state
	TransitionsDebounced prometheus.Counter
	StaleResultsDropped  prometheus.Counter

	CollaboratorFailures *prometheus.CounterVec // by collaborator

	InferenceLatency prometheus.Histogram

	registry *prometheus.Registry
}

// New creates a Metrics instance with all collectors registered on a
// private registry.
func New() *Metrics {
	m := &Metrics{
		FramesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posturify_frames_read_total",
			Help: "Frames read from the camera",
		}),
		FramesClassified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posturify_frames_classified_total",
			Help: "Frames sent to the inference service",
		}),
		Detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "posturify_detections_total",
			Help: "Classification results by resolved posture state",
		}, []string{"state"}),
		TransitionsCommitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "posturify_transitions_committed_total",
			Help: "State transitions committed by the detector",
		}, []string{"state"}),
		TransitionsDebounced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posturify_transitions_debounced_total",
			Help: "State transitions rejected by the debounce window",
		}),
		StaleResultsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posturify_stale_results_dropped_total",
			Help: "Out-of-order classification results discarded",
		}),
		CollaboratorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "posturify_collaborator_failures_total",
			Help: "Side-effect collaborator failures by collaborator",
		}, []string{"collaborator"}),
		InferenceLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "posturify_inference_latency_seconds",
			Help:    "Round-trip latency of inference calls",
			Buckets: prometheus.DefBuckets,
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FramesRead,
		m.FramesClassified,
		m.Detections,
		m.TransitionsCommitted,
		m.TransitionsDebounced,
		m.StaleResultsDropped,
		m.CollaboratorFailures,
		m.InferenceLatency,
	)

	return m
}

// ObserveInference records one inference round trip.
func (m *Metrics) ObserveInference(d time.Duration) {
	m.InferenceLatency.Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts a metrics HTTP server on the given port. Blocks until the
// server exits.
func (m *Metrics) Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
