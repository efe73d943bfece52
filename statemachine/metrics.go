package statemachine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome constants.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
	outcomeNoop    = "noop"
)

// Metric definitions with appropriate labels.
var (
	// transitionTotal tracks committed rule transitions.
	transitionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statemachine_transitions_total",
		Help: "Total number of rule transitions by machine, from_state and to_state",
	}, []string{"machine", "from_state", "to_state"})

	// jumpTotal tracks unguarded jumps.
	jumpTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statemachine_jumps_total",
		Help: "Total number of jumps by machine, from_state and to_state",
	}, []string{"machine", "from_state", "to_state"})

	// guardEvaluations tracks every guard evaluation and its result.
	guardEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statemachine_guard_evaluations_total",
		Help: "Total number of guard evaluations by machine, guard and result",
	}, []string{"machine", "guard", "result"})

	// advanceDuration tracks the time spent in one Advance call, pacing included.
	advanceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statemachine_advance_duration_seconds",
		Help:    "Duration of a single advance by machine and outcome",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"machine", "outcome"})

	// pacingDuration tracks the pacing delays chosen after transitions.
	pacingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statemachine_pacing_seconds",
		Help:    "Pacing delay chosen after a committed transition by machine",
		Buckets: []float64{0, 0.5, 1, 2, 4, 5, 6, 7, 10},
	}, []string{"machine"})
)

func sanitizeMachine(name string) string {
	if name == "" {
		return "unknown"
	}

	return name
}

func guardResult(passed bool) string {
	if passed {
		return "pass"
	}

	return "fail"
}
