package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for call metrics.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	registerOnce sync.Once

	calls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "callwire",
			Name:      "calls_total",
			Help:      "Total invocations by function and outcome.",
		},
		[]string{"transport", "function", "outcome"},
	)
	callDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "callwire",
			Name:      "call_duration_seconds",
			Help:      "Invocation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"transport", "function", "outcome"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "callwire",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "callwire",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(calls, callDuration, httpRequests, httpDuration)
	})
}

// RecordCall records one Invoke. fault is empty for successful calls.
func RecordCall(transport, function, fault string, duration time.Duration) {
	RegisterMetrics()
	outcome := OutcomeOK
	if fault != "" {
		outcome = OutcomeError
	}
	calls.WithLabelValues(transport, function, outcome).Inc()
	callDuration.WithLabelValues(transport, function, outcome).Observe(duration.Seconds())
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
