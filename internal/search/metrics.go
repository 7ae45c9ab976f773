package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rankCalls = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gameshelf",
		Subsystem: "search",
		Name:      "rank_calls_total",
		Help:      "Number of ranking passes executed.",
	})

	rankCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gameshelf",
		Subsystem: "search",
		Name:      "rank_candidates",
		Help:      "Candidate list sizes per ranking pass.",
		Buckets:   []float64{0, 5, 10, 20, 50, 100, 250},
	})

	filteredAddons = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gameshelf",
		Subsystem: "search",
		Name:      "filtered_addons_total",
		Help:      "Candidates dropped by the add-on prefilter.",
	})
)
