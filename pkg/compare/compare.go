// Package compare diffs legacy (V1) and formula-driven (V2) calculation
// outputs during the migration. A report with any DIFFERENT or MISSING_V2
// entry fails the migration gate.
package compare

import (
	"math"

	"github.com/Ramsey-B/trellis/pkg/models"
)

// Thresholds controls agreement classification.
type Thresholds struct {
	// MatchEpsilon is the absolute difference below which quantities MATCH.
	MatchEpsilon float64
	// CloseRelative is the relative difference (against V1) at or below which
	// quantities are CLOSE.
	CloseRelative float64
}

// DefaultThresholds returns the migration defaults: MATCH under 0.001
// absolute, CLOSE at or under 1% relative.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MatchEpsilon:  0.001,
		CloseRelative: 0.01,
	}
}

// Components classifies per-component agreement between a V1 and a V2 run of
// identical inputs. Entries follow V1's order; V1 is the ground truth, so a
// component present only in V2 is ignored while one missing from V2 is a
// MISSING_V2 regression.
func Components(v1, v2 []models.ComputedComponent, thresholds Thresholds) models.ComparisonReport {
	v2ByCode := make(map[string]models.ComputedComponent, len(v2))
	for _, c := range v2 {
		v2ByCode[c.ComponentCode] = c
	}

	report := models.ComparisonReport{
		Entries: make([]models.ComponentComparison, 0, len(v1)),
		Passed:  true,
	}

	for _, expected := range v1 {
		actual, ok := v2ByCode[expected.ComponentCode]
		if !ok {
			report.Entries = append(report.Entries, models.ComponentComparison{
				ComponentCode: expected.ComponentCode,
				V1Quantity:    expected.Quantity,
				Status:        models.ComparisonStatusMissingV2,
			})
			report.Passed = false
			continue
		}

		absolute := math.Abs(expected.Quantity - actual.Quantity)
		relative := relativeDifference(expected.Quantity, absolute)

		status := classify(absolute, relative, thresholds)
		if status == models.ComparisonStatusDifferent {
			report.Passed = false
		}

		v2Quantity := actual.Quantity
		report.Entries = append(report.Entries, models.ComponentComparison{
			ComponentCode:      expected.ComponentCode,
			V1Quantity:         expected.Quantity,
			V2Quantity:         &v2Quantity,
			AbsoluteDifference: absolute,
			RelativeDifference: relative,
			Status:             status,
		})
	}

	return report
}

func classify(absolute float64, relative *float64, thresholds Thresholds) models.ComparisonStatus {
	switch {
	case absolute < thresholds.MatchEpsilon:
		return models.ComparisonStatusMatch
	case relative != nil && *relative <= thresholds.CloseRelative:
		return models.ComparisonStatusClose
	default:
		return models.ComparisonStatusDifferent
	}
}

// relativeDifference is nil when the baseline is zero and the quantities
// differ: the ratio is undefined there and Inf would not survive JSON
// marshaling, so classification falls through to DIFFERENT on the absolute
// difference alone.
func relativeDifference(baseline, absolute float64) *float64 {
	if baseline == 0 && absolute != 0 {
		return nil
	}
	relative := 0.0
	if baseline != 0 {
		relative = absolute / math.Abs(baseline)
	}
	return &relative
}
