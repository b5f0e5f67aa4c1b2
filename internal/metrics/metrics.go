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

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rentease",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rentease",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	workflowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Name:      "workflow_transitions_total",
			Help:      "Committed booking and verification state transitions.",
		},
		[]string{"entity", "action"},
	)

	outboxEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Name:      "outbox_events_total",
			Help:      "Outbox events processed by the relay.",
		},
		[]string{"type", "result"},
	)

	realtimeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rentease",
			Subsystem: "realtime",
			Name:      "connections",
			Help:      "Open notification websocket connections.",
		},
	)

	workerRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Subsystem: "worker",
			Name:      "runs_total",
			Help:      "Background job executions.",
		},
		[]string{"job", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		workflowTransitions,
		outboxEvents,
		realtimeConnections,
		workerRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request. path must be the route template
// so label cardinality stays bounded.
func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func InFlightInc() { httpInFlight.Inc() }
func InFlightDec() { httpInFlight.Dec() }

// RecordTransition counts a committed workflow transition.
func RecordTransition(entity, action string) {
	workflowTransitions.WithLabelValues(entity, action).Inc()
}

// RecordOutboxEvent counts relay results: sent, retry or failed.
func RecordOutboxEvent(eventType, result string) {
	outboxEvents.WithLabelValues(eventType, result).Inc()
}

func RealtimeConnected()    { realtimeConnections.Inc() }
func RealtimeDisconnected() { realtimeConnections.Dec() }

// RecordWorkerRun records one scheduled job execution.
func RecordWorkerRun(job string, success bool) {
	workerRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
}
