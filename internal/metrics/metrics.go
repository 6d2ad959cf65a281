package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	AuthRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)

	DaysAutoFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "challenge_days_auto_failed_total",
		Help: "Missed days backfilled as failed",
	})
	DaysLocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_days_locked_total",
			Help: "Days finalized after the edit window closed, by final status",
		},
		[]string{"status"},
	)
	LogsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_logs_rejected_total",
			Help: "Day log writes rejected by the engine, by reason code",
		},
		[]string{"reason"},
	)
	BadgesAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_badges_awarded_total",
			Help: "Badges awarded",
		},
		[]string{"badge"},
	)
	ChallengesWon = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "challenge_won_total",
		Help: "Challenges completed",
	})
)

// Register adds all collectors to reg. Call once from the process entrypoint.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AuthRejections,
		DaysAutoFailed,
		DaysLocked,
		LogsRejected,
		BadgesAwarded,
		ChallengesWon,
	)
}
