package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "genstudio"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	registry           *prometheus.Registry
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	activityRecorded   *prometheus.CounterVec
	rateLimited        *prometheus.CounterVec
}

// NewPrometheus creates a recorder registered on its own registry.
func NewPrometheus() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
			},
			[]string{"method", "route"},
		),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "requests_total",
				Help:      "Total number of generation process invocations by outcome.",
			},
			[]string{"capability", "status"},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "duration_seconds",
				Help:      "Wall time of generation processes.",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.4m
			},
			[]string{"capability"},
		),
		activityRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "activity",
				Name:      "records_total",
				Help:      "Activity record writes by outcome.",
			},
			[]string{"status"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ratelimit",
				Name:      "rejections_total",
				Help:      "Requests rejected by a rate limit policy.",
			},
			[]string{"policy"},
		),
	}

	r.registry.MustRegister(
		r.httpRequests,
		r.httpDuration,
		r.generations,
		r.generationDuration,
		r.activityRecorded,
		r.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Gatherer returns the underlying registry for exposition.
func (r *PrometheusRecorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveHTTPRequest records a completed HTTP request.
func (r *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncGeneration counts a generation outcome.
func (r *PrometheusRecorder) IncGeneration(capability, status string) {
	r.generations.WithLabelValues(capability, status).Inc()
}

// ObserveGenerationDuration records generation duration.
func (r *PrometheusRecorder) ObserveGenerationDuration(capability string, duration time.Duration) {
	r.generationDuration.WithLabelValues(capability).Observe(duration.Seconds())
}

// IncActivityRecorded counts an activity write outcome.
func (r *PrometheusRecorder) IncActivityRecorded(status string) {
	r.activityRecorded.WithLabelValues(status).Inc()
}

// IncRateLimited counts a rejected request.
func (r *PrometheusRecorder) IncRateLimited(policy string) {
	r.rateLimited.WithLabelValues(policy).Inc()
}
