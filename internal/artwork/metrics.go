package artwork

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	classifyOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameshelf",
		Subsystem: "artwork",
		Name:      "classify_outcomes_total",
		Help:      "Classified images by outcome bucket.",
	}, []string{"bucket"}) // auto, conflict, manual

	measureFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gameshelf",
		Subsystem: "artwork",
		Name:      "measure_failures_total",
		Help:      "Uploaded files that could not be decoded.",
	})
)
