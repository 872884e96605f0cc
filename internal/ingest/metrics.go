package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ItemsIngested counts successfully saved items by type.
var ItemsIngested = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "recallbot",
		Subsystem: "ingest",
		Name:      "items_total",
		Help:      "Total number of items saved to memory by type",
	},
	[]string{"type"},
)
