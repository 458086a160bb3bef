package match

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus instruments every Match shares, following
// the package-level promauto.New* pattern the teacher's worker pool uses
// for ingestion counters.
type metrics struct {
	actionsApplied   prometheus.Counter
	validationErrors prometheus.Counter
	matchesActive    prometheus.Gauge
	timerExpirations *prometheus.CounterVec
}

var globalMetrics = &metrics{
	actionsApplied: promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_actions_applied_total",
		Help: "Total number of actions successfully executed across all matches",
	}),
	validationErrors: promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_validation_errors_total",
		Help: "Total number of actions rejected by the validator",
	}),
	matchesActive: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_matches_active",
		Help: "Current number of matches being orchestrated",
	}),
	timerExpirations: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_timer_expirations_total",
		Help: "Total number of timers that committed a timeout, by kind",
	}, []string{"timer"}),
}
