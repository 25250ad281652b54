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
package store

import (
	"context"
	"fmt"
	"math"

	"github.com/teradata-labs/prism/pkg/resultset"
)

// ColumnInfo describes one table column.
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// Schema returns column metadata for every user table. SQLite reads
// sqlite_master and PRAGMA table_info; other engines read
// information_schema.
func (s *Store) Schema(ctx context.Context) (map[string][]ColumnInfo, error) {
	if s.driver == DriverSQLite {
		return s.sqliteSchema(ctx)
	}
	return s.standardSchema(ctx)
}

func (s *Store) sqliteSchema(ctx context.Context) (map[string][]ColumnInfo, error) {
	tables, err := s.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	schema := make(map[string][]ColumnInfo, len(tables))
	for _, table := range tables {
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
		if err != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
		}
		var cols []ColumnInfo
		for rows.Next() {
			var (
				cid        int
				name       string
				colType    string
				notNull    int
				defaultVal any
				pk         int
			)
			if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan table_info for %s: %w", table, err)
			}
			cols = append(cols, ColumnInfo{
				Name:       name,
				Type:       colType,
				NotNull:    notNull != 0,
				PrimaryKey: pk != 0,
			})
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, err
		}
		_ = rows.Close()
		schema[table] = cols
	}
	return schema, nil
}

func (s *Store) standardSchema(ctx context.Context) (map[string][]ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT table_name, column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema NOT IN ('pg_catalog', 'information_schema', 'mysql', 'performance_schema', 'sys')
		ORDER BY table_name, ordinal_position`)
	if err != nil {
		return nil, fmt.Errorf("failed to read information_schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	schema := map[string][]ColumnInfo{}
	for rows.Next() {
		var table, column, dataType, nullable string
		if err := rows.Scan(&table, &column, &dataType, &nullable); err != nil {
			return nil, err
		}
		schema[table] = append(schema[table], ColumnInfo{
			Name:    column,
			Type:    dataType,
			NotNull: nullable == "NO",
		})
	}
	return schema, rows.Err()
}

func (s *Store) tableNames(ctx context.Context) ([]string, error) {
	query := "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'"
	if s.driver != DriverSQLite {
		query = `
		SELECT table_name FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		AND table_schema NOT IN ('pg_catalog', 'information_schema', 'mysql', 'performance_schema', 'sys')`
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// monthExpr returns the engine-specific expression truncating a date
// column to its YYYY-MM month.
func (s *Store) monthExpr(column string) string {
	switch s.driver {
	case DriverPostgres:
		return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
	case DriverMySQL:
		return fmt.Sprintf("date_format(%s, '%%Y-%%m')", column)
	default:
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", column)
	}
}

// Stats returns per-table counts plus the headline business metrics.
func (s *Store) Stats(ctx context.Context) (map[string]resultset.Value, error) {
	tables, err := s.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	stats := map[string]resultset.Value{}
	for _, table := range tables {
		var count float64
		if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table+"_count"] = resultset.Number(count)
	}

	var totalRevenue, avgOrder float64
	var totalOrders, activeCustomers, totalProducts float64
	_ = s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(total), 0) FROM orders").Scan(&totalRevenue)
	_ = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&totalOrders)
	_ = s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT customer_id) FROM orders").Scan(&activeCustomers)
	_ = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&totalProducts)
	if totalOrders > 0 {
		avgOrder = totalRevenue / totalOrders
	}

	stats["total_revenue"] = resultset.Number(totalRevenue)
	stats["total_orders"] = resultset.Number(totalOrders)
	stats["active_customers"] = resultset.Number(activeCustomers)
	stats["total_products"] = resultset.Number(totalProducts)
	stats["avg_order_value"] = resultset.Number(avgOrder)
	return stats, nil
}

// BusinessKPIs computes the derived indicators: month-over-month revenue
// growth and the top revenue category. Metrics that cannot be derived from
// the data (fewer than two months, no orders) are simply absent.
func (s *Store) BusinessKPIs(ctx context.Context) (map[string]resultset.Value, error) {
	kpis := map[string]resultset.Value{}

	monthly := fmt.Sprintf(`
		SELECT %[1]s as month, SUM(total) as revenue
		FROM orders
		GROUP BY %[1]s
		ORDER BY month DESC
		LIMIT 2`, s.monthExpr("order_date"))
	rows, err := s.db.QueryContext(ctx, monthly)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly growth: %w", err)
	}
	var revenues []float64
	for rows.Next() {
		var month string
		var revenue float64
		if err := rows.Scan(&month, &revenue); err != nil {
			_ = rows.Close()
			return nil, err
		}
		revenues = append(revenues, revenue)
	}
	_ = rows.Close()
	if len(revenues) >= 2 && revenues[1] > 0 {
		growth := (revenues[0] - revenues[1]) / revenues[1] * 100
		kpis["monthly_growth_rate"] = resultset.Number(math.Round(growth*100) / 100)
	}

	var category string
	var categoryRevenue float64
	err = s.db.QueryRowContext(ctx, `
		SELECT p.category, SUM(o.total) as revenue
		FROM products p
		JOIN orders o ON p.id = o.product_id
		GROUP BY p.category
		ORDER BY revenue DESC
		LIMIT 1`).Scan(&category, &categoryRevenue)
	if err == nil {
		kpis["top_category"] = resultset.Text(category)
		kpis["top_category_revenue"] = resultset.Number(categoryRevenue)
	}

	return kpis, nil
}

// ErrUnknownChart rejects chart kinds outside the predefined set.
var ErrUnknownChart = fmt.Errorf("unknown chart kind")

// chartQuery returns the SQL behind a predefined chart, with date handling
// adjusted for the active engine.
func (s *Store) chartQuery(kind string) (string, bool) {
	switch kind {
	case "sales_trend":
		return fmt.Sprintf(`
		SELECT %[1]s as month,
		       SUM(total) as revenue,
		       COUNT(*) as orders
		FROM orders
		GROUP BY %[1]s
		ORDER BY month`, s.monthExpr("order_date")), true
	case "category_sales":
		return `
		SELECT p.category, SUM(o.total) as revenue
		FROM products p
		JOIN orders o ON p.id = o.product_id
		GROUP BY p.category
		ORDER BY revenue DESC
		LIMIT 10`, true
	case "top_products":
		return `
		SELECT p.name, SUM(o.quantity) as quantity_sold, SUM(o.total) as revenue
		FROM products p
		JOIN orders o ON p.id = o.product_id
		GROUP BY p.id, p.name
		ORDER BY revenue DESC
		LIMIT 10`, true
	case "customer_distribution":
		return `
		SELECT c.city, COUNT(*) as customer_count
		FROM customers c
		GROUP BY c.city
		ORDER BY customer_count DESC
		LIMIT 10`, true
	default:
		return "", false
	}
}

// ChartKinds lists the predefined dashboard chart kinds.
func ChartKinds() []string {
	return []string{"sales_trend", "category_sales", "top_products", "customer_distribution"}
}

// ChartData runs the predefined query behind a dashboard chart.
func (s *Store) ChartData(ctx context.Context, kind string) (*resultset.ResultSet, error) {
	query, ok := s.chartQuery(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	return s.ExecuteQuery(ctx, query)
}
