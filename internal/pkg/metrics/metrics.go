package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dialogueTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_rag_dialogue_turns_total",
		Help: "Dialogue turns by route and booking outcome",
	}, []string{"route", "outcome"})

	dialogueFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_rag_dialogue_failures_total",
		Help: "Turns that ended in an error returned to the caller",
	}, []string{"reason"})

	oracleLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interview_rag_oracle_latency_seconds",
		Help:    "Oracle call latency",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	reindexRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_rag_reindex_runs_total",
		Help: "Knowledge reindex runs by strategy and result",
	}, []string{"strategy", "result"})

	indexedChunks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "interview_rag_indexed_chunks",
		Help: "Chunks in the live knowledge generation",
	})
)

func ObserveTurn(route, outcome string, latency time.Duration) {
	if outcome == "" {
		outcome = "none"
	}
	dialogueTurns.WithLabelValues(route, outcome).Inc()
	oracleLatency.Observe(latency.Seconds())
}

func ObserveFailure(reason string) {
	dialogueFailures.WithLabelValues(reason).Inc()
}

func ObserveReindex(strategy string, chunks int, err error) {
	if err != nil {
		reindexRuns.WithLabelValues(strategy, "error").Inc()
		return
	}
	reindexRuns.WithLabelValues(strategy, "ok").Inc()
	indexedChunks.Set(float64(chunks))
}
