package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "freshmart"

// ServerMetrics HTTP request metrics
type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

// NewServerMetrics registers the HTTP metrics on reg
func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "route"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// OrderMetrics business counters of the order service
type OrderMetrics struct {
	Created       *prometheus.CounterVec
	StatusChanges *prometheus.CounterVec
}

// NewOrderMetrics registers the order counters on reg
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Orders created, by delivery slot.",
	}, []string{"slot"})
	changes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "status_changes_total",
		Help:      "Order status transitions, by target status.",
	}, []string{"status"})

	reg.MustRegister(created, changes)
	return &OrderMetrics{Created: created, StatusChanges: changes}
}

// OrderCreated counts a new order
func (m *OrderMetrics) OrderCreated(slot string) {
	if m == nil {
		return
	}
	m.Created.WithLabelValues(slot).Inc()
}

// StatusChanged counts a status transition
func (m *OrderMetrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

// Handler exposes the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
