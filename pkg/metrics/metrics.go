package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	SubmissionsTotal    *prometheus.CounterVec
	RecommenderDuration prometheus.Histogram
	SubjectToggles      *prometheus.CounterVec
	Exports             *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		SubmissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recommendation_submissions_total",
				Help: "Form submissions by outcome (success, app_error, network_error, invalid, busy)",
			},
			[]string{"outcome"},
		),
		RecommenderDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recommender_request_duration_seconds",
				Help:    "Round trip to the recommendation endpoint",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		SubjectToggles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preferred_subject_toggles_total",
				Help: "Preferred subject toggles by result (added, removed, rejected)",
			},
			[]string{"result"},
		),
		Exports: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schedule_exports_total",
				Help: "Schedule downloads by format",
			},
			[]string{"format"},
		),
	}
}

func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRecommender(d time.Duration) {
	if m == nil {
		return
	}
	m.RecommenderDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveToggle(result string) {
	if m == nil {
		return
	}
	m.SubjectToggles.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveExport(format string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(format).Inc()
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
