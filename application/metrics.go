package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// errorClassifications tracks error sub-machine verdicts.
	errorClassifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyapply_error_classifications_total",
		Help: "Total number of error classifications by kind",
	}, []string{"kind"})

	// questionsAnswered tracks question blocks by answer kind or failure. A screen
	// without any block counts once as none.
	questionsAnswered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyapply_questions_total",
		Help: "Total number of question blocks handled by outcome",
	}, []string{"outcome"})

	// uploads tracks resume upload attempts.
	uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyapply_uploads_total",
		Help: "Total number of resume uploads by outcome",
	}, []string{"outcome"})
)
