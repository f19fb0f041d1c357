package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/trellis/pkg/models"
)

func TestApplyRounding(t *testing.T) {
	t.Run("sku rounds up to the next whole unit", func(t *testing.T) {
		assert.Equal(t, 13.0, ApplyRounding(12.1, models.RoundingLevelSKU))
		assert.Equal(t, 13.0, ApplyRounding(12.9, models.RoundingLevelSKU))
		assert.Equal(t, 12.0, ApplyRounding(12.0, models.RoundingLevelSKU))
		assert.Equal(t, 0.0, ApplyRounding(0, models.RoundingLevelSKU))
	})

	t.Run("project passes the raw value through", func(t *testing.T) {
		assert.Equal(t, 12.1, ApplyRounding(12.1, models.RoundingLevelProject))
		assert.Equal(t, 0.045, ApplyRounding(0.045, models.RoundingLevelProject))
	})
}
