package resolve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolverFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gameshelf",
		Subsystem: "resolve",
		Name:      "fallbacks_total",
		Help:      "Resolutions where the intersection was empty and the full device list was returned.",
	})

	retroExtensions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gameshelf",
		Subsystem: "resolve",
		Name:      "retro_extensions_total",
		Help:      "Legacy platform tags extended to their modern successor.",
	})
)
