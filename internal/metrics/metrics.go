// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notification outcomes recorded by RecordNotification.
const (
	OutcomeQueued      = "queued"
	OutcomeNoRecipient = "no_recipient"
	OutcomeFailed      = "failed"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing,
// which keeps unit tests free of registry setup.
type Metrics struct {
	registry prometheus.Gatherer

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	cycles        *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWith(reg, reg)
}

// NewWith registers the collectors on reg and serves them from g.
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: g,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nikshay_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nikshay_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}, []string{"method", "route"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nikshay_initial_notifications_total",
			Help: "Initial notification attempts by family and outcome",
		}, []string{"family", "outcome"}),
		cycles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nikshay_tree_cycles_total",
			Help: "Parent pointer cycles detected during descendant fetches",
		}, []string{"family"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nikshay_tree_cache_lookups_total",
			Help: "Tree cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordNotification counts a sendInitialInvitation outcome.
func (m *Metrics) RecordNotification(familyPath, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(familyPath, outcome).Inc()
}

// RecordCycle counts a detected parent pointer cycle.
func (m *Metrics) RecordCycle(familyPath string) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(familyPath).Inc()
}

// RecordCacheLookup counts a tree cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
