package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(deckBuildDuration, deckScores) }

var deckBuildDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "deck_build_duration_seconds",
		Help:    "Wall time of one build+score run inside the worker.",
		Buckets: prometheus.DefBuckets,
	},
)

var deckScores = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "deck_overall_score",
		Help:    "Composite quality score of successfully built decks.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	},
)

func ObserveBuildDuration(seconds float64) {
	deckBuildDuration.Observe(seconds)
}

func ObserveDeckScore(score float64) {
	deckScores.Observe(score)
}
