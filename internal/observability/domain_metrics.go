package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	questionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kompass_questions_total",
			Help: "Total number of natural-language questions received.",
		},
	)
	answersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kompass_answers_total",
			Help: "Total number of questions answered end to end.",
		},
	)
	gateRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kompass_gate_rejections_total",
			Help: "Total number of generated statements rejected by the SQL gate.",
		},
		[]string{"reason"},
	)
	pipelineFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kompass_pipeline_failures_total",
			Help: "Total number of pipeline failures by stage.",
		},
		[]string{"stage"},
	)
	completionDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kompass_completion_duration_seconds",
			Help:    "Chat completion latency by purpose.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"purpose"},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kompass_query_duration_seconds",
			Help:    "Database query latency for gated statements.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)
	queryRowsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kompass_query_rows_returned",
			Help:    "Row counts returned by gated statements.",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		},
	)
)

func init() {
	prometheus.MustRegister(
		questionsTotal,
		answersTotal,
		gateRejectionsTotal,
		pipelineFailuresTotal,
		completionDurationSeconds,
		queryDurationSeconds,
		queryRowsReturned,
	)
}

func ObserveQuestion() {
	questionsTotal.Inc()
}

func ObserveAnswer() {
	answersTotal.Inc()
}

func ObserveGateRejection(reason string) {
	gateRejectionsTotal.WithLabelValues(reason).Inc()
}

func ObservePipelineFailure(stage string) {
	pipelineFailuresTotal.WithLabelValues(stage).Inc()
}

func ObserveCompletion(purpose string, elapsed time.Duration) {
	completionDurationSeconds.WithLabelValues(purpose).Observe(elapsed.Seconds())
}

func ObserveQuery(rows int, elapsed time.Duration) {
	queryDurationSeconds.Observe(elapsed.Seconds())
	queryRowsReturned.Observe(float64(rows))
}
