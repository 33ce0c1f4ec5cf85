// Package metrics holds the Prometheus collectors exported on /metrics
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
		},
		[]string{"method", "route"},
	)

	answersChecked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "piteco_answers_checked_total",
			Help: "Total number of answers checked by the study mode.",
		},
		[]string{"correct"},
	)

	messagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "piteco_messages_sent_total",
			Help: "Total number of chat messages sent.",
		},
	)

	chromaKeyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "piteco_chroma_key_duration_seconds",
			Help:    "Duration of chroma-key background removal including the image download.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6.4s
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		answersChecked,
		messagesSent,
		chromaKeyDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations labelled by chi route pattern,
// so /collections/1 and /collections/2 share one series.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := middleware.NewStatusRecorder(w)
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.Status())).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// RecordAnswerChecked counts one answer check
func RecordAnswerChecked(correct bool) {
	answersChecked.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// RecordMessageSent counts one sent chat message
func RecordMessageSent() {
	messagesSent.Inc()
}

// ObserveChromaKey records the duration of one background removal
func ObserveChromaKey(d time.Duration) {
	chromaKeyDuration.Observe(d.Seconds())
}
