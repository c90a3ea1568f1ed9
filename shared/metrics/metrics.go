package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tablebook"

const (
	ConfirmOutcomeCreated      = "created"
	ConfirmOutcomeReplayed     = "replayed"
	ConfirmOutcomeRecovered    = "recovered"
	ConfirmOutcomeNotCreated   = "not_created"
	ConfirmOutcomeSlotTaken    = "slot_taken"
	ConfirmOutcomeHoldNotFound = "hold_not_found"
	ConfirmOutcomeInvalid      = "invalid"
	ConfirmOutcomeInProgress   = "in_progress"
	ConfirmOutcomeFailed       = "failed"
)

const (
	VerificationByID     = "id"
	VerificationByEmail  = "email_window"
	VerificationByRecent = "recent"
	VerificationNotFound = "not_found"
	VerificationDenied   = "denied"
	VerificationFailed   = "failed"
)

var (
	HoldsCreatedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holds_created_total",
			Help:      "Total number of booking holds created",
		},
		[]string{"tenant"},
	)

	HoldsPurgedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "holds_purged_total",
		Help:      "Total number of expired booking holds removed",
	})

	ConfirmOutcomeCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirm_outcomes_total",
			Help:      "Outcome of confirm requests",
		},
		[]string{"outcome"},
	)

	RecoveryPollCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_recovery_polls_total",
			Help:      "Read-after-write polls issued while recovering a created booking",
		},
		[]string{"found"},
	)

	VerificationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_verifications_total",
			Help:      "Post-create booking verification results",
		},
		[]string{"method"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RecordHoldCreated(tenantID string) {
	HoldsCreatedCounter.WithLabelValues(tenantID).Inc()
}

func RecordHoldsPurged(count int64) {
	HoldsPurgedCounter.Add(float64(count))
}

func RecordConfirmOutcome(outcome string) {
	ConfirmOutcomeCounter.WithLabelValues(outcome).Inc()
}

func RecordRecoveryPoll(found bool) {
	RecoveryPollCounter.WithLabelValues(strconv.FormatBool(found)).Inc()
}

func RecordVerification(method string) {
	VerificationCounter.WithLabelValues(method).Inc()
}

func ObserveHTTPRequest(method, path string, status int, started time.Time) {
	code := strconv.Itoa(status)

	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(time.Since(started).Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
