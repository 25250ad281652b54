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
package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/prism/pkg/coordinator"
)

func TestSubmitQuestionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/query/natural", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"query": {"question": "top products", "sql_query": "SELECT name, revenue FROM sales", "model_used": "pattern_matching"},
			"result": {
				"data": [
					{"name": "Widget", "revenue": 120.5},
					{"name": "Gadget", "revenue": null}
				],
				"row_count": 2
			}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.SubmitQuestion(context.Background(), "top products")
	require.NoError(t, err)

	assert.Equal(t, "SELECT name, revenue FROM sales", res.SQL)
	assert.Equal(t, "pattern_matching", res.ModelUsed)
	// Column order comes from the wire order of the first row's keys.
	assert.Equal(t, []string{"name", "revenue"}, res.Set.Columns)
	require.Equal(t, 2, res.Set.RowCount())
	assert.True(t, res.Set.Rows[1]["revenue"].IsNull())
}

func TestSubmitQuestionAppError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success": false, "error": "Only SELECT statements are allowed", "error_type": "validation_error"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.SubmitQuestion(context.Background(), "drop table orders")
	require.Error(t, err)

	var appErr *coordinator.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Only SELECT statements are allowed", appErr.Message)
	assert.Equal(t, "validation_error", appErr.ErrorType)
}

func TestSubmitQuestionTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL)
	_, err := c.SubmitQuestion(context.Background(), "top products")
	require.Error(t, err)

	var tErr *coordinator.TransportError
	assert.True(t, errors.As(err, &tErr))
}

func TestSubmitQuestionNonProtocolStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.SubmitQuestion(context.Background(), "top products")
	require.Error(t, err)

	var tErr *coordinator.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Contains(t, tErr.Error(), "502")
}

func TestFetchSuggestionsGrouped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/suggestions", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "suggestions": {
			"sales": ["What are the top selling products?"],
			"customers": ["How many customers do we have?"]
		}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.FetchSuggestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []string{"What are the top selling products?"}, got["sales"])
}

func TestFetchSuggestionsFlatList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "suggestions": ["What is the total revenue?"]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.FetchSuggestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"What is the total revenue?"}, got["general"])
}

func TestFetchKPIsFlattening(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/kpis", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "kpis": {
			"financial": {
				"total_revenue": {"value": 98765.4, "formatted": "$98,765.40", "type": "currency"},
				"avg_order_value": 123.45
			},
			"customer_count": 42
		}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.FetchKPIs(context.Background())
	require.NoError(t, err)

	v, ok := got["total_revenue"].Number()
	require.True(t, ok)
	assert.InDelta(t, 98765.4, v, 0.001)

	v, ok = got["avg_order_value"].Number()
	require.True(t, ok)
	assert.InDelta(t, 123.45, v, 0.001)

	v, ok = got["customer_count"].Number()
	require.True(t, ok)
	assert.InDelta(t, 42, v, 0.001)
}

func TestFetchKPIsKeepsDeepObjectsAsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "kpis": {
			"financial": {
				"by_region": {"emea": 100, "apac": 200}
			}
		}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.FetchKPIs(context.Background())
	require.NoError(t, err)

	s, ok := got["by_region"].Text()
	require.True(t, ok)
	assert.JSONEq(t, `{"emea": 100, "apac": 200}`, s)
}

func TestFetchChartData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/charts/data", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "chart_data": [
			{"month": "2025-01", "revenue": 1000},
			{"month": "2025-02", "revenue": 1500}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	rs, err := c.FetchChartData(context.Background(), "sales_trend")
	require.NoError(t, err)
	assert.Equal(t, []string{"month", "revenue"}, rs.Columns)
	assert.Equal(t, 2, rs.RowCount())
}
