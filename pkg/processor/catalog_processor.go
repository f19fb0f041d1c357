// Package processor wires the catalog CDC feed to cache invalidation.
package processor

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/trellis/pkg/kafka"
	"github.com/Ramsey-B/trellis/pkg/metrics"
	"github.com/Ramsey-B/trellis/pkg/tracing"
)

// TemplateInvalidator invalidates the cached template set for a product type.
type TemplateInvalidator interface {
	Invalidate(ctx context.Context, tenantID, productTypeID string) error
}

// CatalogProcessor applies catalog change events. The engine never mutates
// the template cache itself; all invalidation flows through here.
type CatalogProcessor struct {
	logger ectologger.Logger
	cache  TemplateInvalidator
}

// NewCatalogProcessor creates a new catalog change processor
func NewCatalogProcessor(logger ectologger.Logger, cache TemplateInvalidator) *CatalogProcessor {
	return &CatalogProcessor{
		logger: logger,
		cache:  cache,
	}
}

// HandleMessage is the kafka.MessageHandler for catalog CDC events.
func (p *CatalogProcessor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.CatalogProcessor.HandleMessage")
	defer span.End()

	change := msg.CatalogChange
	if change == nil {
		return nil
	}

	metrics.CatalogEventsProcessed.WithLabelValues(change.Table, change.Op).Inc()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"table":           change.Table,
		"op":              change.Op,
		"tenant_id":       change.TenantID,
		"product_type_id": change.ProductTypeID,
	})

	if change.TenantID == "" || change.ProductTypeID == "" {
		log.Warn("Catalog change event missing tenant or product type; skipping invalidation")
		return nil
	}

	if err := p.cache.Invalidate(ctx, change.TenantID, change.ProductTypeID); err != nil {
		log.WithError(err).Error("Failed to invalidate template cache")
		return err
	}

	log.Debug("Invalidated template cache for catalog change")
	return nil
}
