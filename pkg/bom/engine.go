// Package bom implements the formula-driven bill-of-materials calculation
// engine: template selection, dependency-ordered scheduling, and rounding.
package bom

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/trellis/pkg/formula"
	"github.com/Ramsey-B/trellis/pkg/metrics"
	"github.com/Ramsey-B/trellis/pkg/models"
	"github.com/Ramsey-B/trellis/pkg/tracing"
)

// TemplateSource supplies the active formula templates for a product type.
// The Postgres repository implements it for production; tests use an
// in-memory implementation, and the Redis read-through cache wraps it.
type TemplateSource interface {
	ListActiveByProductType(ctx context.Context, tenantID, productTypeID string) ([]models.FormulaTemplate, error)
}

// ComponentSource supplies the component types for a product type in their
// fixed dependency order (sort_order ascending).
type ComponentSource interface {
	ListActiveByProductType(ctx context.Context, tenantID, productTypeID string) ([]models.ComponentType, error)
}

// Engine runs BOM calculations. It owns no mutable state between runs; each
// calculation gets its own context, so independent calculations can run
// concurrently without locks.
type Engine struct {
	logger     ectologger.Logger
	templates  TemplateSource
	components ComponentSource
	evaluator  *formula.Evaluator
}

// NewEngine creates a new calculation engine
func NewEngine(logger ectologger.Logger, templates TemplateSource, components ComponentSource) *Engine {
	return &Engine{
		logger:     logger,
		templates:  templates,
		components: components,
		evaluator:  formula.NewEvaluator(),
	}
}

// Calculate evaluates every selected component formula for the request in
// dependency order, threading each rounded quantity back into the context so
// later formulas can reference earlier results. Broken templates degrade to a
// zero quantity plus a diagnostic; the request as a whole still succeeds.
func (e *Engine) Calculate(ctx context.Context, tenantID string, req models.CalculationRequest) (*models.CalculationResult, error) {
	ctx, span := tracing.StartSpan(ctx, "bom.Engine.Calculate")
	defer span.End()

	start := time.Now()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":       tenantID,
		"product_type_id": req.ProductTypeID,
		"length_feet":     req.LengthFeet,
	})

	componentTypes, err := e.components.ListActiveByProductType(ctx, tenantID, req.ProductTypeID)
	if err != nil {
		return nil, err
	}

	templates, err := e.templates.ListActiveByProductType(ctx, tenantID, req.ProductTypeID)
	if err != nil {
		return nil, err
	}

	selected, diagnostics := SelectTemplates(templates, req.ProductStyleID)

	fctx := seedContext(req)

	result := &models.CalculationResult{
		ProductTypeID:  req.ProductTypeID,
		ProductStyleID: req.ProductStyleID,
		Components:     make([]models.ComputedComponent, 0, len(selected)),
		Diagnostics:    diagnostics,
	}

	for _, componentType := range componentTypes {
		template, ok := selected[componentType.Code]
		if !ok {
			// No template configured for this component; not an error.
			continue
		}

		computed, componentDiags := e.evaluateComponent(componentType.Code, template, fctx)
		fctx.Set(componentType.Code+"_qty", computed.Quantity)

		result.Components = append(result.Components, computed)
		result.Diagnostics = append(result.Diagnostics, componentDiags...)
	}

	for _, d := range result.Diagnostics {
		metrics.CalculationDiagnostics.WithLabelValues(tenantID, req.ProductTypeID, d.Code).Inc()
	}
	metrics.CalculationsTotal.WithLabelValues(tenantID, req.ProductTypeID, "ok").Inc()
	metrics.CalculationDuration.WithLabelValues(tenantID, req.ProductTypeID).Observe(time.Since(start).Seconds())

	log.WithFields(map[string]any{
		"component_count":  len(result.Components),
		"diagnostic_count": len(result.Diagnostics),
	}).Debug("Completed BOM calculation")

	return result, nil
}

func (e *Engine) evaluateComponent(code string, template models.FormulaTemplate, fctx formula.Context) (models.ComputedComponent, []models.Diagnostic) {
	var diagnostics []models.Diagnostic

	raw, missing, err := e.evaluator.Evaluate(template.Formula, fctx)
	if err != nil {
		// One bad template must not block unrelated components.
		diagnostics = append(diagnostics, models.Diagnostic{
			Severity:      models.DiagnosticSeverityError,
			Code:          models.DiagnosticMalformedFormula,
			ComponentCode: code,
			Message:       err.Error(),
		})
		return models.ComputedComponent{
			ComponentCode: code,
			Quantity:      0,
			RawValue:      0,
			RoundingLevel: template.RoundingLevel,
			Trace:         fmt.Sprintf("%s: formula %q failed: %v", code, template.Formula, err),
		}, diagnostics
	}

	for _, name := range missing {
		diagnostics = append(diagnostics, models.Diagnostic{
			Severity:      models.DiagnosticSeverityWarning,
			Code:          models.DiagnosticMissingVariable,
			ComponentCode: code,
			Message:       fmt.Sprintf("variable %q is not in the calculation context; substituted 0", name),
		})
	}

	quantity := ApplyRounding(raw, template.RoundingLevel)

	return models.ComputedComponent{
		ComponentCode: code,
		Quantity:      quantity,
		RawValue:      raw,
		RoundingLevel: template.RoundingLevel,
		Trace:         fmt.Sprintf("%s = %s => raw=%.4f, quantity=%g (%s rounding)", code, template.Formula, raw, quantity, template.RoundingLevel),
	}, diagnostics
}

func seedContext(req models.CalculationRequest) formula.Context {
	fctx := formula.NewContext()
	fctx.Set(models.VarLength, req.LengthFeet)
	fctx.Set(models.VarLines, float64(req.Lines))
	fctx.Set(models.VarGates, float64(req.Gates))
	for name, value := range req.Attributes {
		fctx.Set(name, value)
	}
	return fctx
}
