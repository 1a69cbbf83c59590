package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records per-provider request outcomes for Prometheus scraping.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New builds a metrics set on a private registry so tests can run in
// parallel without collector collisions.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Chat completion requests by provider nickname, kind and HTTP status.",
		}, []string{"nickname", "kind", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "End-to-end request latency by provider nickname and kind.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"nickname", "kind"}),
	}
}

// ObserveRequest records one finished dispatch. Requests rejected before a
// provider is resolved use an empty nickname and kind.
func (m *Metrics) ObserveRequest(nickname, kind string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(nickname, kind, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(nickname, kind).Observe(elapsed.Seconds())
}

// Handler returns the scrape endpoint for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
