package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	BidAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bid_attempts_total",
			Help: "Total number of bid attempts",
		},
	)

	BidAcceptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bid_accepted_total",
			Help: "Total number of accepted bids",
		},
	)

	BidRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_rejected_total",
			Help: "Total number of rejected bids",
		},
		[]string{"reason"},
	)

	AuctionsClosedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auctions_closed_total",
			Help: "Total number of auctions closed",
		},
	)

	WinnerNotificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "winner_notifications_total",
			Help: "Total number of winner notifications sent",
		},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var (
	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)

	RedisLockSuccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_success_total",
			Help: "Total number of successful lock acquisitions",
		},
		[]string{"lock_type"},
	)

	RedisLockFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_failure_total",
			Help: "Total number of failed lock acquisitions",
		},
		[]string{"lock_type", "reason"},
	)
)

func TimeDBQuery(queryType, table string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start).Seconds()
		DBQueryDuration.WithLabelValues(queryType, table).Observe(duration)
	}
}

func RecordBidAttempt() {
	BidAttemptsTotal.Inc()
}

func RecordBidAccepted() {
	BidAcceptedTotal.Inc()
}

func RecordBidRejected(reason string) {
	BidRejectedTotal.WithLabelValues(reason).Inc()
}

func RecordAuctionClosed() {
	AuctionsClosedTotal.Inc()
}

func RecordWinnerNotification() {
	WinnerNotificationsTotal.Inc()
}
