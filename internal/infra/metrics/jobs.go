package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(deckJobsProcessedTotal, deckJobsReapedTotal) }

var deckJobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "deck_jobs_processed_total",
		Help: "Total number of deck generation jobs processed, labeled by terminal status.",
	},
	[]string{"status"}, // 'complete', 'failed'
)

var deckJobsReapedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "deck_jobs_reaped_total",
		Help: "Jobs found already terminal by a worker pass and deleted without reprocessing.",
	},
)

func IncDeckJob(status string) {
	deckJobsProcessedTotal.WithLabelValues(status).Inc()
}

func IncReapedJob() {
	deckJobsReapedTotal.Inc()
}
