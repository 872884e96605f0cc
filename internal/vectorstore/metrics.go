package vectorstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation label values.
const (
	OpUpsert = "upsert"
	OpSearch = "search"
	OpDelete = "delete"
)

var (
	// OperationsTotal counts store operations by operation and result.
	// Labels: operation (upsert, search, delete), result (success, error)
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recallbot",
			Subsystem: "vectorstore",
			Name:      "operations_total",
			Help:      "Total number of vector store operations",
		},
		[]string{"operation", "result"},
	)

	// OperationDuration tracks how long store operations take.
	// Labels: operation (upsert, search, delete)
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recallbot",
			Subsystem: "vectorstore",
			Name:      "operation_duration_seconds",
			Help:      "Duration of vector store operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// DocumentsStored counts documents written to the store.
	DocumentsStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recallbot",
			Subsystem: "vectorstore",
			Name:      "documents_stored_total",
			Help:      "Total number of documents written to the vector store",
		},
	)
)

// prometheusTimer starts a duration timer for the given operation.
func prometheusTimer(operation string) *prometheus.Timer {
	return prometheus.NewTimer(OperationDuration.WithLabelValues(operation))
}
