package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "library_service",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "library_service",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	// LoansOpened counts successfully opened loans.
	LoansOpened = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "library_service",
			Subsystem: "loans",
			Name:      "opened_total",
			Help:      "Total number of loans opened.",
		},
	)

	// LoansReturned counts successfully closed loans.
	LoansReturned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "library_service",
			Subsystem: "loans",
			Name:      "returned_total",
			Help:      "Total number of loans returned.",
		},
	)

	// LateFees observes the fee charged per returned loan, zero included.
	LateFees = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "library_service",
			Subsystem: "loans",
			Name:      "late_fee_amount",
			Help:      "Late fee charged per returned loan.",
			Buckets:   prometheus.LinearBuckets(0, 2, 15),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		LoansOpened,
		LoansReturned,
		LateFees,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler serves the registry for Prometheus scrapes.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latencies per method and
// route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if pattern := r.Pattern; pattern != "" {
			path = pattern
		}
		httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
