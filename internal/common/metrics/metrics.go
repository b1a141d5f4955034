package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchURLsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xsearch_urls_generated_total",
			Help: "Total number of search URLs generated from valid filters",
		},
	)

	SearchURLsEmpty = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xsearch_urls_empty_total",
			Help: "Total number of generated search URLs without any query fragment",
		},
	)

	FilterValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xsearch_filter_validation_failures_total",
			Help: "Total number of filter validation errors by field and code",
		},
		[]string{"field", "error_code"},
	)

	HistoryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xsearch_history_operations_total",
			Help: "Total number of history store operations",
		},
		[]string{"operation", "backend", "status"},
	)

	HistoryOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xsearch_history_operation_duration_seconds",
			Help:    "Duration of history store operations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation", "backend"},
	)
)

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
