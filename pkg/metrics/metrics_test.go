package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Label cardinality mismatches panic at call time, not at registration, so
// each vector is exercised with the label values its callers pass.
func TestMetricLabelCardinality(t *testing.T) {
	assert.NotPanics(t, func() {
		CalculationsTotal.WithLabelValues("default", "pt-1", "ok").Inc()
		CalculationDuration.WithLabelValues("default", "pt-1").Observe(0.01)
		CalculationDiagnostics.WithLabelValues("default", "pt-1", "missing_variable").Inc()
		ComparisonsTotal.WithLabelValues("default", "pt-1", "passed").Inc()
		ComparisonsTotal.WithLabelValues("default", "pt-1", "failed").Inc()
		TemplateCacheHits.WithLabelValues("hit").Inc()
		CatalogEventsProcessed.WithLabelValues("formula_templates", "u").Inc()
	})
}
