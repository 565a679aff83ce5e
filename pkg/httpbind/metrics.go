package httpbind

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestDuration tracks request duration in seconds.
	// Labels: method, path, status
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridline_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestsTotal tracks total requests.
	// Labels: method, path, status
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridline_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestsInFlight tracks requests currently being served.
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gridline_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// exportsTotal tracks generated exports.
	// Labels: table, format
	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridline_exports_total",
			Help: "Total number of generated table exports",
		},
		[]string{"table", "format"},
	)
)

func recordHTTPMetrics(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
}

func incrementInFlight() {
	httpRequestsInFlight.Inc()
}

func decrementInFlight() {
	httpRequestsInFlight.Dec()
}

func recordExport(table, format string) {
	exportsTotal.WithLabelValues(table, format).Inc()
}
