// Package cache provides the Redis read-through cache for formula templates.
// The engine treats cached templates as read-only; entries are invalidated by
// catalog change notifications, never mutated in place.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/trellis/pkg/bom"
	"github.com/Ramsey-B/trellis/pkg/metrics"
	"github.com/Ramsey-B/trellis/pkg/models"
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// TemplateCache caches the active template set per (tenant, product type) and
// falls back to the underlying source on miss. It implements
// bom.TemplateSource so it can sit transparently in front of the repository.
type TemplateCache struct {
	rdb    *redis.Client
	source bom.TemplateSource
	logger ectologger.Logger
	ttl    time.Duration
}

// NewTemplateCache creates a new template cache backed by Redis
func NewTemplateCache(cfg Config, source bom.TemplateSource, logger ectologger.Logger) (*TemplateCache, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Infof("Connected to Redis at %s", addr)

	return &TemplateCache{
		rdb:    rdb,
		source: source,
		logger: logger,
		ttl:    cfg.TTL,
	}, nil
}

// Close closes the Redis connection
func (c *TemplateCache) Close() error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable
func (c *TemplateCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ListActiveByProductType returns the cached template set, loading it from
// the underlying source on a miss. Cache failures degrade to the source.
func (c *TemplateCache) ListActiveByProductType(ctx context.Context, tenantID, productTypeID string) ([]models.FormulaTemplate, error) {
	key := templateKey(tenantID, productTypeID)

	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var templates []models.FormulaTemplate
		if err := json.Unmarshal(payload, &templates); err == nil {
			metrics.TemplateCacheHits.WithLabelValues("hit").Inc()
			return templates, nil
		}
		c.logger.WithContext(ctx).WithError(err).Warn("Failed to decode cached templates; falling back to source")
	} else if err != redis.Nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Template cache read failed; falling back to source")
	}

	metrics.TemplateCacheHits.WithLabelValues("miss").Inc()

	templates, err := c.source.ListActiveByProductType(ctx, tenantID, productTypeID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(templates); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.WithContext(ctx).WithError(err).Warn("Failed to cache templates")
		}
	}

	return templates, nil
}

// Invalidate drops the cached template set for a (tenant, product type).
// Called by the catalog CDC processor when a template row changes.
func (c *TemplateCache) Invalidate(ctx context.Context, tenantID, productTypeID string) error {
	key := templateKey(tenantID, productTypeID)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate template cache for %s: %w", key, err)
	}
	c.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":       tenantID,
		"product_type_id": productTypeID,
	}).Debug("Invalidated template cache")
	return nil
}

func templateKey(tenantID, productTypeID string) string {
	return fmt.Sprintf("trellis:templates:%s:%s", tenantID, productTypeID)
}
