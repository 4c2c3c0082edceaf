// Package metrics exposes Prometheus collectors for the consultation pipeline
// and its HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yaktalk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yaktalk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "yaktalk_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Pipeline metrics
	consultationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yaktalk_consultations_total",
			Help: "Total number of consultations by outcome and failed stage",
		},
		[]string{"outcome", "stage"},
	)

	consultationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yaktalk_consultation_duration_seconds",
			Help:    "End-to-end consultation duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	emergencyLevels = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yaktalk_emergency_levels_total",
			Help: "Total number of emergency evaluations by level",
		},
		[]string{"level"},
	)

	queryTypes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yaktalk_query_types_total",
			Help: "Total number of analyzed questions by query type",
		},
		[]string{"query_type"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yaktalk_answer_cache_lookups_total",
			Help: "Total number of answer cache lookups by result",
		},
		[]string{"result"},
	)

	generationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yaktalk_generation_failures_total",
			Help: "Total number of answer generations replaced by the apology text",
		},
	)

	// AI provider metrics
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yaktalk_ai_requests_total",
			Help: "Total number of AI provider calls",
		},
		[]string{"provider", "operation", "status"},
	)

	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yaktalk_ai_request_duration_seconds",
			Help:    "AI provider call duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "operation"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yaktalk_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		path := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routePattern labels requests by their chi route so query strings and
// unmatched paths do not blow up cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// --- Pipeline metric helpers ---

// RecordConsultation records a finished consultation. stage is empty on success.
func RecordConsultation(success bool, stage string, duration time.Duration) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	consultationsTotal.WithLabelValues(outcome, stage).Inc()
	consultationDuration.Observe(duration.Seconds())
}

func RecordEmergencyLevel(level int) {
	emergencyLevels.WithLabelValues(strconv.Itoa(level)).Inc()
}

func RecordQueryType(queryType string) {
	queryTypes.WithLabelValues(queryType).Inc()
}

// RecordCacheLookup records an answer cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

func RecordGenerationFailure() {
	generationFailures.Inc()
}

// RecordAIRequest records one AI provider call.
func RecordAIRequest(provider, operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	aiRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	aiRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
