// Package metrics provides Prometheus metrics for the Trellis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalculationsTotal tracks BOM calculations by product type and outcome
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "engine",
			Name:      "calculations_total",
			Help:      "Total number of BOM calculations by status",
		},
		[]string{"tenant_id", "product_type", "status"},
	)

	// CalculationDuration tracks end-to-end calculation duration in seconds
	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trellis",
			Subsystem: "engine",
			Name:      "calculation_duration_seconds",
			Help:      "Duration of BOM calculations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"tenant_id", "product_type"},
	)

	// CalculationDiagnostics tracks per-component diagnostics emitted during calculations
	CalculationDiagnostics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "engine",
			Name:      "calculation_diagnostics_total",
			Help:      "Total diagnostics emitted by the calculation engine",
		},
		[]string{"tenant_id", "product_type", "code"},
	)

	// ComparisonsTotal tracks V1/V2 migration comparisons by result
	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "migration",
			Name:      "comparisons_total",
			Help:      "Total V1/V2 comparison runs by gate result",
		},
		[]string{"tenant_id", "product_type", "status"},
	)

	// TemplateCacheHits tracks template cache hits and misses
	TemplateCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "cache",
			Name:      "template_lookups_total",
			Help:      "Template cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// CatalogEventsProcessed tracks catalog CDC events consumed from Kafka
	CatalogEventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "catalog",
			Name:      "cdc_events_total",
			Help:      "Catalog change events processed by operation",
		},
		[]string{"table", "op"},
	)
)
