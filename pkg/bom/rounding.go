package bom

import (
	"math"

	"github.com/Ramsey-B/trellis/pkg/models"
)

// ApplyRounding turns a raw evaluation result into an orderable quantity.
// SKU-level rounding always rounds up to the next whole unit; project-level
// quantities stay fractional and are aggregated downstream. The policy is a
// property of the template row, never inferred from the component code.
func ApplyRounding(raw float64, level models.RoundingLevel) float64 {
	if level == models.RoundingLevelSKU {
		return math.Ceil(raw)
	}
	return raw
}
