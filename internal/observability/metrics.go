// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Intake metrics
	EventsDetected  *prometheus.CounterVec
	EventsDuplicate prometheus.Counter
	EventsRejected  *prometheus.CounterVec
	FeedReconnects  prometheus.Counter
	FeedMessages    prometheus.Counter

	// Resolution metrics
	ResolutionsSucceeded *prometheus.CounterVec
	ResolutionsFailed    prometheus.Counter
	ResolutionAttempts   prometheus.Counter
	PendingBacklog       prometheus.Gauge
	SourceLatency        *prometheus.HistogramVec

	// Matching metrics
	MatchesFound prometheus.Counter

	// Notification metrics
	NotificationsDelivered  prometheus.Counter
	NotificationsFailed     prometheus.Counter
	NotificationsSuppressed prometheus.Counter
	DeliveryLatency         prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulSweep prometheus.Gauge
	UptimeSeconds       prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "keyword_sniper"
	}

	return &Metrics{
		// Intake metrics
		EventsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "events_detected_total",
			Help:      "Total number of launch events accepted by platform",
		}, []string{"platform"}),
		EventsDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "events_duplicate_total",
			Help:      "Total number of launch events discarded as duplicates",
		}),
		EventsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "events_rejected_total",
			Help:      "Total number of launch events rejected by reason",
		}, []string{"reason"}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Total number of launch feed reconnects",
		}),
		FeedMessages: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "messages_total",
			Help:      "Total number of messages received from the launch feed",
		}),

		// Resolution metrics
		ResolutionsSucceeded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolutions_succeeded_total",
			Help:      "Total number of names resolved by source",
		}, []string{"source"}),
		ResolutionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolutions_failed_total",
			Help:      "Total number of events marked FAILED after exhausting retries",
		}),
		ResolutionAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "attempts_total",
			Help:      "Total number of resolution attempts",
		}),
		PendingBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "pending_backlog",
			Help:      "Number of pending events seen by the last sweep",
		}),
		SourceLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "source_latency_seconds",
			Help:      "Name source call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),

		// Matching metrics
		MatchesFound: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "matches_found_total",
			Help:      "Total number of keyword matches found",
		}),

		// Notification metrics
		NotificationsDelivered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "delivered_total",
			Help:      "Total number of notifications delivered",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "failed_total",
			Help:      "Total number of notification delivery failures",
		}),
		NotificationsSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "suppressed_total",
			Help:      "Total number of notifications suppressed as already sent",
		}),
		DeliveryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "delivery_latency_seconds",
			Help:      "Webhook delivery latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulSweep: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_sweep_timestamp",
			Help:      "Unix timestamp of the last completed resolver sweep",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEventDetected increments the accepted events counter for a platform.
func RecordEventDetected(platform string) {
	DefaultMetrics.EventsDetected.WithLabelValues(platform).Inc()
}

// RecordEventDuplicate increments the duplicate events counter.
func RecordEventDuplicate() {
	DefaultMetrics.EventsDuplicate.Inc()
}

// RecordEventRejected increments the rejected events counter by reason.
func RecordEventRejected(reason string) {
	DefaultMetrics.EventsRejected.WithLabelValues(reason).Inc()
}

// RecordResolution records a resolution outcome by source.
func RecordResolution(source string) {
	DefaultMetrics.ResolutionsSucceeded.WithLabelValues(source).Inc()
}

// RecordResolutionFailed increments the failed resolutions counter.
func RecordResolutionFailed() {
	DefaultMetrics.ResolutionsFailed.Inc()
}

// RecordSourceLatency records a name source call latency.
func RecordSourceLatency(source string, seconds float64) {
	DefaultMetrics.SourceLatency.WithLabelValues(source).Observe(seconds)
}

// RecordMatch increments the matches found counter.
func RecordMatch() {
	DefaultMetrics.MatchesFound.Inc()
}

// RecordDelivery records a notification delivery outcome.
func RecordDelivery(seconds float64, err error) {
	DefaultMetrics.DeliveryLatency.Observe(seconds)
	if err != nil {
		DefaultMetrics.NotificationsFailed.Inc()
		return
	}
	DefaultMetrics.NotificationsDelivered.Inc()
}

// RecordSuppressed increments the suppressed notifications counter.
func RecordSuppressed() {
	DefaultMetrics.NotificationsSuppressed.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
