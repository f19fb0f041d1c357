package bom

import (
	"fmt"
	"sort"

	"github.com/Ramsey-B/trellis/pkg/models"
)

// SelectTemplates resolves exactly one winning template per component code for
// a (product type, style) pair. Style-specific templates beat generic ones;
// among equal specificity the higher priority wins. A residual tie is resolved
// by lowest template ID so selection stays deterministic across runs, and is
// reported as a diagnostic — catalog validation treats the same condition as a
// hard error at write time.
//
// A component code with no applicable template is simply absent from the map;
// the scheduler skips it without error.
func SelectTemplates(templates []models.FormulaTemplate, styleID *string) (map[string]models.FormulaTemplate, []models.Diagnostic) {
	byComponent := make(map[string][]models.FormulaTemplate)
	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		if t.ProductStyleID != nil && (styleID == nil || *t.ProductStyleID != *styleID) {
			continue
		}
		byComponent[t.ComponentCode] = append(byComponent[t.ComponentCode], t)
	}

	selected := make(map[string]models.FormulaTemplate, len(byComponent))
	var diagnostics []models.Diagnostic

	for code, candidates := range byComponent {
		sort.Slice(candidates, func(i, j int) bool {
			si, sj := specificity(candidates[i]), specificity(candidates[j])
			if si != sj {
				return si > sj
			}
			if candidates[i].Priority != candidates[j].Priority {
				return candidates[i].Priority > candidates[j].Priority
			}
			return candidates[i].ID < candidates[j].ID
		})

		winner := candidates[0]
		if len(candidates) > 1 {
			runnerUp := candidates[1]
			if specificity(winner) == specificity(runnerUp) && winner.Priority == runnerUp.Priority {
				diagnostics = append(diagnostics, models.Diagnostic{
					Severity:      models.DiagnosticSeverityWarning,
					Code:          models.DiagnosticAmbiguousSelection,
					ComponentCode: code,
					Message:       fmt.Sprintf("templates %s and %s tie on specificity and priority; selected %s", winner.ID, runnerUp.ID, winner.ID),
				})
			}
		}
		selected[code] = winner
	}

	// byComponent is a map, so order the diagnostics for stable output.
	sort.Slice(diagnostics, func(i, j int) bool {
		return diagnostics[i].ComponentCode < diagnostics[j].ComponentCode
	})

	return selected, diagnostics
}

func specificity(t models.FormulaTemplate) int {
	if t.ProductStyleID != nil {
		return 1
	}
	return 0
}
