package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Broker/message metrics
	MessagesPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chimera_messages_published_total",
			Help: "Total number of messages published, by routing key",
		},
		[]string{"routing_key"},
	)

	MessagesConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chimera_messages_consumed_total",
			Help: "Total number of messages consumed, by routing key and outcome",
		},
		[]string{"routing_key", "outcome"},
	)

	PublishLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chimera_publish_latency_seconds",
			Help:    "Time taken to publish a message in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"routing_key"},
	)

	HandlerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chimera_handler_latency_seconds",
			Help:    "Time taken by a routing key's handler in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"routing_key"},
	)

	// Correlation registry metrics
	CorrelationsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chimera_correlations_in_flight",
			Help: "Number of request/response correlations currently pending",
		},
	)

	CorrelationsReapedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chimera_correlations_reaped_total",
			Help: "Total number of stale correlations reaped",
		},
	)

	// Circuit breaker metrics
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chimera_breaker_state",
			Help: "Current circuit breaker state by name (0=closed, 1=half_open, 2=open)",
		},
		[]string{"breaker"},
	)

	BreakerTripsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chimera_breaker_trips_total",
			Help: "Total number of times a circuit breaker tripped open",
		},
		[]string{"breaker"},
	)

	// Session store metrics
	SessionReadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chimera_session_reads_total",
			Help: "Total number of session context reads",
		},
	)

	SessionWritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chimera_session_writes_total",
			Help: "Total number of session context writes",
		},
	)

	// Alert engine metrics
	AlertsFiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chimera_alerts_fired_total",
			Help: "Total number of alerts fired, by severity",
		},
		[]string{"severity"},
	)

	AlertEvaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chimera_alert_evaluation_duration_seconds",
			Help:    "Time taken to evaluate one metric sample against all rules",
			Buckets: prometheus.DefBuckets,
		},
	)

	RulesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chimera_rules_active",
			Help: "Total number of currently registered alert rules",
		},
	)

	// Notification dispatcher metrics
	NotificationsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chimera_notifications_sent_total",
			Help: "Total number of notification deliveries attempted, by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(MessagesPublishedTotal)
	prometheus.MustRegister(MessagesConsumedTotal)
	prometheus.MustRegister(PublishLatency)
	prometheus.MustRegister(HandlerLatency)
	prometheus.MustRegister(CorrelationsInFlight)
	prometheus.MustRegister(CorrelationsReapedTotal)
	prometheus.MustRegister(BreakerState)
	prometheus.MustRegister(BreakerTripsTotal)
	prometheus.MustRegister(SessionReadsTotal)
	prometheus.MustRegister(SessionWritesTotal)
	prometheus.MustRegister(AlertsFiredTotal)
	prometheus.MustRegister(AlertEvaluationDuration)
	prometheus.MustRegister(RulesActive)
	prometheus.MustRegister(NotificationsSentTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
