// Package metrics collects Prometheus metrics for the HTTP surface and the AI delegate.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is what the server middleware and services record into.
type MetricsCollector interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordAICall(operation, outcome string, duration time.Duration)
	RecordNoteEvent(eventType string)
}

type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	aiCalls         *prometheus.CounterVec
	aiLatency       *prometheus.HistogramVec
	noteEvents      *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voicenotes_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicenotes_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		aiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voicenotes_ai_calls_total",
			Help: "AI delegate calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		aiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicenotes_ai_call_duration_seconds",
			Help:    "AI delegate latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"operation"}),
		noteEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voicenotes_note_events_total",
			Help: "Note lifecycle events recorded in the activity log",
		}, []string{"type"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.aiCalls,
		c.aiLatency,
		c.noteEvents,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordAICall(operation, outcome string, duration time.Duration) {
	c.aiCalls.WithLabelValues(operation, outcome).Inc()
	c.aiLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordNoteEvent(eventType string) {
	c.noteEvents.WithLabelValues(eventType).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used by tests and when metrics are not wired.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordAICall(string, string, time.Duration)       {}
func (Nop) RecordNoteEvent(string)                           {}
