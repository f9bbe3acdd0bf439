package listing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rankedRenders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merchandising_ranked_renders_total",
		Help: "Listing renders re-ordered by the ranking service.",
	})
	fallbackRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merchandising_fallback_renders_total",
		Help: "Listing renders that kept the native ordering, by reason.",
	}, []string{"reason"})
)
