package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the award workflow and the decay scheduler. Registered on the
// default registry and exposed via /metrics.
var (
	AwardsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kudos",
		Name:      "awards_processed_total",
		Help:      "Number of banana awards recorded.",
	})

	AwardsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kudos",
		Name:      "awards_rejected_total",
		Help:      "Number of award attempts rejected during validation.",
	})

	LevelUps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kudos",
		Name:      "level_ups_total",
		Help:      "Number of level-up transitions detected.",
	})

	BonusAwards = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kudos",
		Name:      "bonus_awards_total",
		Help:      "Number of giver-prize bonus bananas granted.",
	})

	DecayRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kudos",
		Name:      "decay_runs_total",
		Help:      "Number of monthly decay runs executed.",
	})

	DecayPenalties = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kudos",
		Name:      "decay_penalties_total",
		Help:      "Number of users penalized by the decay job.",
	})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kudos",
		Name:      "notification_failures_total",
		Help:      "Number of best-effort gateway notifications that failed.",
	})
)
