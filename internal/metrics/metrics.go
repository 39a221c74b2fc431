package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tictactoe"

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the application collectors on their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	gameOperations    *prometheus.CounterVec
	addressOperations *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	that := &Metrics{
		Registry: prometheus.NewRegistry(),

		gameOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "operations_total",
				Help:      "Game session operations by outcome.",
			},
			[]string{"operation", "result"},
		),

		addressOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "addressbook",
				Name:      "operations_total",
				Help:      "Address book operations by outcome.",
			},
			[]string{"operation", "result"},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "path"},
		),
	}

	that.Registry.MustRegister(
		that.gameOperations,
		that.addressOperations,
		that.httpRequests,
		that.httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	return that
}

// Handler exposes the registry in the Prometheus text format.
func (that *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(that.Registry, promhttp.HandlerOpts{})
}

func (that *Metrics) ObserveGameOperation(operation string, err error) {
	that.gameOperations.WithLabelValues(operation, result(err)).Inc()
}

func (that *Metrics) ObserveAddressOperation(operation string, err error) {
	that.addressOperations.WithLabelValues(operation, result(err)).Inc()
}

func (that *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64) {
	that.httpRequests.WithLabelValues(method, path, status).Inc()
	that.httpDuration.WithLabelValues(method, path).Observe(seconds)
}

func result(err error) string {
	if err != nil {
		return ResultError
	}

	return ResultOK
}
