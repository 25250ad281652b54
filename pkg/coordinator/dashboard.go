// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package coordinator

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/teradata-labs/prism/pkg/format"
	"github.com/teradata-labs/prism/pkg/visualization"
)

// Dashboard chart kinds served by the query backend, with the shape each
// one defaults to.
var dashboardCharts = []struct {
	Kind  string
	Shape visualization.ChartType
}{
	{"sales_trend", visualization.ChartTypeLine},
	{"category_sales", visualization.ChartTypePie},
	{"top_products", visualization.ChartTypeBar},
	{"customer_distribution", visualization.ChartTypeDoughnut},
}

// DashboardData holds whatever startup fetches succeeded. Regions that
// failed are simply absent; each failure was logged where it happened.
type DashboardData struct {
	Suggestions map[string][]string
	KPIs        map[string]format.MetricValue
	Charts      map[string][]byte // chart kind → renderer config document
}

// LoadDashboard issues the startup fetches (suggestions, KPIs, and the four
// predefined dashboard charts) without waiting for one another. Each fetch
// has its own error boundary: a failure is logged locally and leaves its
// region empty, never failing the others or the call.
func (c *Coordinator) LoadDashboard(ctx context.Context) *DashboardData {
	data := &DashboardData{
		Suggestions: map[string][]string{},
		KPIs:        map[string]format.MetricValue{},
		Charts:      map[string][]byte{},
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sugg, err := c.svc.FetchSuggestions(ctx)
		if err != nil {
			c.logger.Warn("suggestions fetch failed", zap.Error(err))
			return
		}
		mu.Lock()
		data.Suggestions = sugg
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		kpis, err := c.svc.FetchKPIs(ctx)
		if err != nil {
			c.logger.Warn("KPI fetch failed", zap.Error(err))
			return
		}
		mu.Lock()
		for key, v := range kpis {
			data.KPIs[key] = format.Metric(key, v)
		}
		mu.Unlock()
	}()

	for _, chart := range dashboardCharts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs, err := c.svc.FetchChartData(ctx, chart.Kind)
			if err != nil {
				c.logger.Warn("chart data fetch failed",
					zap.String("kind", chart.Kind), zap.Error(err))
				return
			}
			cls := visualization.Classify(rs)
			enc := visualization.SelectEncoding(rs, cls, chart.Shape)
			if !enc.HasAxis {
				return
			}
			payload := visualization.BuildPayload(rs, enc, chart.Shape, c.style)
			config, err := c.gen.Generate(payload, chart.Shape, chart.Kind)
			if err != nil {
				c.logger.Warn("chart config generation failed",
					zap.String("kind", chart.Kind), zap.Error(err))
				return
			}
			mu.Lock()
			data.Charts[chart.Kind] = config
			mu.Unlock()
		}()
	}

	wg.Wait()
	return data
}
