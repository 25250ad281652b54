// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/teradata-labs/prism/pkg/format"
	"github.com/teradata-labs/prism/pkg/store"
)

// Metric keys per KPI category. Anything unlisted lands in "other".
var (
	financialMetrics = []string{
		"total_revenue", "average_order_value", "avg_order_value",
		"monthly_growth_rate", "top_category_revenue", "total_profit",
	}
	operationalMetrics = []string{
		"total_orders", "total_products", "low_stock_count",
		"orders_per_day", "inventory_turnover",
	}
	customerMetrics = []string{
		"total_customers", "active_customers", "customer_lifetime_value",
		"new_customers", "customer_retention_rate", "customers_per_city",
	}
)

// CategorizedKPIs is the /api/kpis payload: formatted metrics grouped by
// business area.
type CategorizedKPIs map[string]map[string]format.MetricValue

// kpiCache holds the categorized KPI payload between cron refreshes. The
// stats queries hit every table, so serving them per-request would hammer
// the database for values that barely move.
type kpiCache struct {
	store  *store.Store
	logger *zap.Logger

	mu      sync.RWMutex
	current CategorizedKPIs
}

func newKPICache(st *store.Store, logger *zap.Logger) *kpiCache {
	return &kpiCache{store: st, logger: logger}
}

// get returns the cached payload, computing it on demand when the cache has
// never been filled.
func (c *kpiCache) get(ctx context.Context) (CategorizedKPIs, error) {
	c.mu.RLock()
	cached := c.current
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current, nil
}

// refresh recomputes stats and derived KPIs and swaps the cached payload.
func (c *kpiCache) refresh(ctx context.Context) error {
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return err
	}
	derived, err := c.store.BusinessKPIs(ctx)
	if err != nil {
		return err
	}
	for k, v := range derived {
		stats[k] = v
	}

	categorized := CategorizedKPIs{
		"financial":   {},
		"operational": {},
		"customer":    {},
	}
	for key, value := range stats {
		bucket := categoryFor(key)
		if categorized[bucket] == nil {
			categorized[bucket] = map[string]format.MetricValue{}
		}
		categorized[bucket][key] = format.Metric(key, value)
	}

	c.mu.Lock()
	c.current = categorized
	c.mu.Unlock()
	c.logger.Debug("kpi cache refreshed", zap.Int("metrics", len(stats)))
	return nil
}

func categoryFor(key string) string {
	for _, m := range financialMetrics {
		if key == m {
			return "financial"
		}
	}
	for _, m := range operationalMetrics {
		if key == m {
			return "operational"
		}
	}
	for _, m := range customerMetrics {
		if key == m {
			return "customer"
		}
	}
	return "other"
}
