// Package metrics provides the Prometheus metrics of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the service. Each instance has its own registry, so
// tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP requests by method, route and status code
	Requests *prometheus.CounterVec

	// HTTP request latency by method and route
	RequestDuration *prometheus.HistogramVec

	// Spreadsheet exports by format
	Exports *prometheus.CounterVec

	// Humans written to exported spreadsheets
	ExportedRows prometheus.Counter

	// Emails handed out by the consume action
	EmailsConsumed prometheus.Counter
}

// New creates a new Metrics instance with all service metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contacts_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_exports_total",
			Help: "Total spreadsheet exports by format",
		}, []string{"format"}),

		ExportedRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "contacts_exported_rows_total",
			Help: "Total humans written to exported spreadsheets",
		}),

		EmailsConsumed: factory.NewCounter(prometheus.CounterOpts{
			Name: "contacts_emails_consumed_total",
			Help: "Total emails handed out by the consume action",
		}),
	}
}

// Middleware records the request counter and latency histogram. Requests that match no route
// are counted under the route "unmatched".
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// IncrementExports records one export of rows humans in the given format.
func (m *Metrics) IncrementExports(format string, rows int) {
	if m != nil {
		m.Exports.WithLabelValues(format).Inc()
		m.ExportedRows.Add(float64(rows))
	}
}

// IncrementEmailsConsumed records one email consume.
func (m *Metrics) IncrementEmailsConsumed() {
	if m != nil {
		m.EmailsConsumed.Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
