package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	MessagesCreated    *prometheus.CounterVec
	MessagesRevoked    prometheus.Counter
	ValidationFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcstrap_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rcstrap_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "rcstrap_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		MessagesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcstrap_messages_created_total",
				Help: "Total number of messages stored, by direction",
			},
			[]string{"direction"},
		),
		MessagesRevoked: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rcstrap_messages_revoked_total",
				Help: "Total number of revoked messages",
			},
		),
		ValidationFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rcstrap_validation_failures_total",
				Help: "Total number of rejected agent message payloads",
			},
		),
	}
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordMessageCreated(direction string) {
	m.MessagesCreated.WithLabelValues(direction).Inc()
}

func (m *Metrics) RecordMessageRevoked() {
	m.MessagesRevoked.Inc()
}

func (m *Metrics) RecordValidationFailure() {
	m.ValidationFailures.Inc()
}
