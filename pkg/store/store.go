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
// Package store executes SQL against the retail database and shapes rows
// into result sets. SQLite is the primary engine; Postgres and MySQL work
// through the same database/sql surface.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/lib/pq"              // postgres driver

	_ "github.com/teradata-labs/prism/internal/sqlitedriver" // sqlite3 driver
	"github.com/teradata-labs/prism/pkg/resultset"
)

// Supported driver names for Open.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ErrNotSelect rejects statements other than SELECT on the direct-SQL
// surface.
var ErrNotSelect = errors.New("only SELECT queries are allowed")

// Store wraps a SQL database.
type Store struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open connects to the database. driver is one of sqlite3, postgres, mysql.
func Open(driver, dsn string, opts ...Option) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db, driver: driver, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string { return s.driver }

// IsSelect reports whether the statement is a SELECT, ignoring leading
// whitespace and case.
func IsSelect(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT")
}

// bind rewrites ? placeholders into the engine's positional form. Postgres
// wants $1..$n; sqlite and mysql take ? as written.
func (s *Store) bind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ExecuteQuery runs the query and collects every row into a result set.
// Column order follows the statement's select list.
func (s *Store) ExecuteQuery(ctx context.Context, query string) (*resultset.ResultSet, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	rs := resultset.New(columns...)
	scan := make([]any, len(columns))
	for i := range scan {
		scan[i] = new(any)
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		row := resultset.Row{}
		for i, col := range columns {
			row[col] = toValue(*scan[i].(*any))
		}
		rs.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	s.logger.Debug("query executed",
		zap.Int("rows", rs.RowCount()),
		zap.Duration("elapsed", time.Since(start)))
	return rs, nil
}

// toValue converts a database/sql scan result into the tagged union. Dates
// collapse to their day; booleans become their text form.
func toValue(v any) resultset.Value {
	switch x := v.(type) {
	case nil:
		return resultset.Null()
	case int64:
		return resultset.Number(float64(x))
	case float64:
		return resultset.Number(x)
	case []byte:
		return resultset.Text(string(x))
	case string:
		return resultset.Text(x)
	case bool:
		if x {
			return resultset.Text("true")
		}
		return resultset.Text("false")
	case time.Time:
		return resultset.Text(x.Format("2006-01-02"))
	default:
		return resultset.Text(fmt.Sprint(x))
	}
}

// ValidateQuery checks the statement without executing it, using the
// engine's EXPLAIN.
func (s *Store) ValidateQuery(ctx context.Context, query string) error {
	rows, err := s.db.QueryContext(ctx, "EXPLAIN "+query)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	return rows.Close()
}

// ExecuteSelect is the direct-SQL surface: it refuses anything but SELECT
// before touching the database.
func (s *Store) ExecuteSelect(ctx context.Context, query string) (*resultset.ResultSet, error) {
	if !IsSelect(query) {
		return nil, ErrNotSelect
	}
	return s.ExecuteQuery(ctx, query)
}
