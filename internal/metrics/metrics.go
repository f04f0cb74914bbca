package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LedgerMutations counts successful primary writes by ledger and action.
	LedgerMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_mutations_total",
			Help: "Successful ledger mutations by ledger (asset, transfer, disposal) and action (add, edit, delete)",
		},
		[]string{"ledger", "action"},
	)

	// SideEffectFailures counts best-effort writes that failed and were dropped.
	SideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_side_effect_failures_total",
			Help: "Best-effort side effects (audit, propagate) that failed",
		},
		[]string{"kind"},
	)

	// PropagationSkipped counts transfers whose asset could not be found.
	PropagationSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_propagation_skipped_total",
			Help: "Transfer propagations skipped because no asset carries the code",
		},
	)

	// LoginAttempts counts login outcomes (success, rejected, error).
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

var initOnce sync.Once

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LedgerMutations, SideEffectFailures, PropagationSkipped, LoginAttempts)
	})
}

// RecordRequest records duration and count for an HTTP request. path should be
// the matched route pattern so label cardinality stays bounded.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncMutation counts one successful primary write.
func IncMutation(ledger, action string) {
	LedgerMutations.WithLabelValues(ledger, action).Inc()
}

// IncSideEffectFailure counts one dropped best-effort write.
func IncSideEffectFailure(kind string) {
	SideEffectFailures.WithLabelValues(kind).Inc()
}

// IncPropagationSkipped counts one transfer with no matching asset.
func IncPropagationSkipped() {
	PropagationSkipped.Inc()
}

// IncLogin counts one login attempt outcome.
func IncLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}
