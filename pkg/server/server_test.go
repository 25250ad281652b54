// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/prism/pkg/client"
	"github.com/teradata-labs/prism/pkg/store"
	"github.com/teradata-labs/prism/pkg/translator"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "retail.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Seed(context.Background()))
	return New(st, translator.New(), DefaultConfig())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return rec, envelope
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"healthy"`, string(env["status"]))
}

func TestNaturalQuery(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodPost, "/api/query/natural",
		`{"question": "What are the top selling products?"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var query struct {
		Question  string `json:"question"`
		SQLQuery  string `json:"sql_query"`
		ModelUsed string `json:"model_used"`
	}
	require.NoError(t, json.Unmarshal(env["query"], &query))
	assert.Equal(t, translator.ModelPatternMatching, query.ModelUsed)
	assert.Contains(t, query.SQLQuery, "total_sold")

	var result struct {
		Columns  []string        `json:"columns"`
		Data     json.RawMessage `json:"data"`
		RowCount int             `json:"row_count"`
	}
	require.NoError(t, json.Unmarshal(env["result"], &result))
	assert.Equal(t, []string{"name", "total_sold", "revenue"}, result.Columns)
	assert.Greater(t, result.RowCount, 0)

	// The wire carries row keys in column order.
	trimmed := strings.TrimSpace(string(result.Data))
	idx := strings.Index(trimmed, `"name"`)
	idx2 := strings.Index(trimmed, `"total_sold"`)
	require.Greater(t, idx2, idx)

	recent := s.History().Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "What are the top selling products?", recent[0].Question)
}

func TestNaturalQueryMissingQuestion(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodPost, "/api/query/natural", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `"validation_error"`, string(env["error_type"]))
}

func TestNaturalQueryTooShort(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodPost, "/api/query/natural", `{"question": "hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `"validation_error"`, string(env["error_type"]))
}

func TestSQLQuerySelectOnly(t *testing.T) {
	s := newTestServer(t)

	rec, env := doJSON(t, s.Handler(), http.MethodPost, "/api/query/sql",
		`{"sql": "DELETE FROM orders"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `"security_error"`, string(env["error_type"]))

	rec, env = doJSON(t, s.Handler(), http.MethodPost, "/api/query/sql",
		`{"sql": "SELECT COUNT(*) as n FROM orders"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Columns  []string `json:"columns"`
		RowCount int      `json:"row_count"`
	}
	require.NoError(t, json.Unmarshal(env["result"], &result))
	assert.Equal(t, []string{"n"}, result.Columns)
	assert.Equal(t, 1, result.RowCount)
}

func TestSQLQuerySchemaError(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodPost, "/api/query/sql",
		`{"sql": "SELECT * FROM no_such_table"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `"sql_schema_error"`, string(env["error_type"]))
}

func TestSuggestionsCategorized(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodGet, "/api/suggestions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var suggestions map[string][]string
	require.NoError(t, json.Unmarshal(env["suggestions"], &suggestions))
	assert.Contains(t, suggestions, "sales")
	assert.Contains(t, suggestions, "customers")
	assert.Contains(t, suggestions, "products")
	assert.Contains(t, suggestions, "general")
	assert.NotEmpty(t, suggestions["sales"])
}

func TestSuggestionsRankedByPartialQuestion(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodGet, "/api/suggestions?q=monthly+trend", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var ranked []string
	require.NoError(t, json.Unmarshal(env["suggestions"], &ranked))
	require.NotEmpty(t, ranked)
	assert.Equal(t, "What's the monthly sales trend?", ranked[0])
}

func TestKPIsCategorizedAndFormatted(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodGet, "/api/kpis", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var kpis map[string]map[string]struct {
		Formatted string `json:"formatted"`
		Type      string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env["kpis"], &kpis))

	rev, ok := kpis["financial"]["total_revenue"]
	require.True(t, ok, "total_revenue must land in the financial bucket")
	assert.Equal(t, "currency", rev.Type)
	assert.True(t, strings.HasPrefix(rev.Formatted, "$"), rev.Formatted)

	orders, ok := kpis["operational"]["total_orders"]
	require.True(t, ok)
	assert.Equal(t, "count", orders.Type)

	_, ok = kpis["customer"]["active_customers"]
	assert.True(t, ok)

	// Per-table counts are uncategorized.
	_, ok = kpis["other"]["customers_count"]
	assert.True(t, ok)
}

func TestChartData(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodPost, "/api/charts/data",
		`{"chart_type": "sales_trend"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env["chart_data"], &rows))
	require.NotEmpty(t, rows)
	assert.Contains(t, rows[0], "month")
	assert.Contains(t, rows[0], "revenue")
}

func TestChartDataUnknownKind(t *testing.T) {
	s := newTestServer(t)
	rec, env := doJSON(t, s.Handler(), http.MethodPost, "/api/charts/data",
		`{"chart_type": "mystery"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `"validation_error"`, string(env["error_type"]))
}

func TestSchemaAndStats(t *testing.T) {
	s := newTestServer(t)

	rec, env := doJSON(t, s.Handler(), http.MethodGet, "/api/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var schema map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env["schema"], &schema))
	assert.Contains(t, schema, "orders")

	rec, env = doJSON(t, s.Handler(), http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(env["stats"], &stats))
	assert.Contains(t, stats, "total_revenue")
}

// The HTTP client and server agree on the protocol end to end, including
// column order recovery on the client side.
func TestClientRoundTrip(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := client.New(srv.URL)
	res, err := c.SubmitQuestion(context.Background(), "show me monthly sales")
	require.NoError(t, err)
	assert.Equal(t, []string{"month", "revenue", "order_count"}, res.Set.Columns)
	assert.Greater(t, res.Set.RowCount(), 0)

	kpis, err := c.FetchKPIs(context.Background())
	require.NoError(t, err)
	_, ok := kpis["total_revenue"].Number()
	assert.True(t, ok)

	rs, err := c.FetchChartData(context.Background(), "top_products")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "quantity_sold", "revenue"}, rs.Columns)
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
