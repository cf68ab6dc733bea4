// Package metrics provides Prometheus metrics for the lab cost estimator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks inbound HTTP requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labcost",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks inbound HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "labcost",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// PricingCalculationsTotal tracks cost calculations by outcome
	PricingCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labcost",
			Subsystem: "pricing",
			Name:      "calculations_total",
			Help:      "Total number of cost calculations by outcome",
		},
		[]string{"outcome"},
	)

	// PricingCalculationDuration tracks how long a calculation holds the store locks
	PricingCalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "labcost",
			Subsystem: "pricing",
			Name:      "calculation_duration_seconds",
			Help:      "Duration of cost calculations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	// PricingReportItems tracks how many items land in each bucket of a report
	PricingReportItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "labcost",
			Subsystem: "pricing",
			Name:      "report_items",
			Help:      "Number of items per cost report bucket",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"bucket"},
	)

	// StorageSavesTotal tracks document saves by document and status
	StorageSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labcost",
			Subsystem: "storage",
			Name:      "saves_total",
			Help:      "Total number of document saves by status",
		},
		[]string{"document", "status"},
	)
)

// Outcome labels for PricingCalculationsTotal
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

// RecordSave increments StorageSavesTotal for a finished save
func RecordSave(document string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StorageSavesTotal.WithLabelValues(document, status).Inc()
}
