// Package validation checks a product type's formula catalog before its
// templates ever reach the runtime engine: malformed formulas, references to
// components later in the dependency order, unknown variables, and selection
// ties that would otherwise be resolved implicitly at calculation time.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ramsey-B/trellis/pkg/formula"
	"github.com/Ramsey-B/trellis/pkg/models"
)

// Finding is one catalog configuration problem.
type Finding struct {
	Code          string `json:"code"`
	ComponentCode string `json:"component_code,omitempty"`
	TemplateID    string `json:"template_id,omitempty"`
	Message       string `json:"message"`
}

// Result is the outcome of validating one product type's catalog.
type Result struct {
	Valid    bool      `json:"valid"`
	Findings []Finding `json:"findings"`
}

// ValidateCatalog checks every active template for a product type against the
// component dependency order and the set of seed input variables. It is a
// configuration-time gate: conditions it reports (out-of-order references,
// ambiguous ties) are undefined behavior at runtime and must be fixed in the
// catalog, not handled by the engine.
func ValidateCatalog(componentTypes []models.ComponentType, templates []models.FormulaTemplate, inputVariables []string) Result {
	evaluator := formula.NewEvaluator()

	// Position of each component in the dependency order.
	order := make(map[string]int, len(componentTypes))
	for i, ct := range componentTypes {
		order[ct.Code] = i
	}

	known := make(map[string]bool, len(inputVariables))
	for _, name := range inputVariables {
		known[formula.NormalizeName(name)] = true
	}

	var findings []Finding

	for _, t := range templates {
		if !t.IsActive {
			continue
		}

		position, inOrder := order[t.ComponentCode]
		if !inOrder {
			findings = append(findings, Finding{
				Code:          models.DiagnosticOutOfOrderReference,
				ComponentCode: t.ComponentCode,
				TemplateID:    t.ID,
				Message:       fmt.Sprintf("component %q is not in the dependency order for this product type", t.ComponentCode),
			})
			continue
		}

		variables, err := evaluator.Variables(t.Formula)
		if err != nil {
			findings = append(findings, Finding{
				Code:          models.DiagnosticMalformedFormula,
				ComponentCode: t.ComponentCode,
				TemplateID:    t.ID,
				Message:       err.Error(),
			})
			continue
		}

		for _, name := range variables {
			findings = append(findings, checkVariable(name, position, order, known, t)...)
		}
	}

	findings = append(findings, findSelectionTies(templates)...)

	return Result{
		Valid:    len(findings) == 0,
		Findings: findings,
	}
}

// checkVariable validates one variable reference. `<code>_qty` references must
// point at a component earlier in the dependency order; anything else must be
// a seed input.
func checkVariable(name string, position int, order map[string]int, known map[string]bool, t models.FormulaTemplate) []Finding {
	if code, ok := strings.CutSuffix(name, "_qty"); ok {
		if referenced, inOrder := order[code]; inOrder {
			if referenced >= position {
				return []Finding{{
					Code:          models.DiagnosticOutOfOrderReference,
					ComponentCode: t.ComponentCode,
					TemplateID:    t.ID,
					Message:       fmt.Sprintf("formula references [%s_qty] but %q does not precede %q in the dependency order", code, code, t.ComponentCode),
				}}
			}
			return nil
		}
	}

	if known[name] {
		return nil
	}

	return []Finding{{
		Code:          models.DiagnosticUnknownVariable,
		ComponentCode: t.ComponentCode,
		TemplateID:    t.ID,
		Message:       fmt.Sprintf("formula references [%s], which is neither a seed input nor a computed quantity; it will evaluate as 0", name),
	}}
}

// findSelectionTies reports pairs of active templates that share component
// code, style scope specificity, and priority. The runtime selector breaks
// such ties deterministically, but they are a catalog error to fix at write
// time.
func findSelectionTies(templates []models.FormulaTemplate) []Finding {
	type tieKey struct {
		component  string
		styleScope string
		priority   int
	}

	grouped := make(map[tieKey][]models.FormulaTemplate)
	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		scope := ""
		if t.ProductStyleID != nil {
			scope = *t.ProductStyleID
		}
		key := tieKey{component: t.ComponentCode, styleScope: scope, priority: t.Priority}
		grouped[key] = append(grouped[key], t)
	}

	var findings []Finding
	for key, group := range grouped {
		if len(group) < 2 {
			continue
		}
		ids := make([]string, len(group))
		for i, t := range group {
			ids[i] = t.ID
		}
		sort.Strings(ids)
		findings = append(findings, Finding{
			Code:          models.DiagnosticAmbiguousSelection,
			ComponentCode: key.component,
			Message:       fmt.Sprintf("templates %s tie on style scope and priority %d", strings.Join(ids, ", "), key.priority),
		})
	}

	// grouped is a map, so sort for stable output across identical runs.
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].ComponentCode != findings[j].ComponentCode {
			return findings[i].ComponentCode < findings[j].ComponentCode
		}
		return findings[i].Message < findings[j].Message
	})
	return findings
}
