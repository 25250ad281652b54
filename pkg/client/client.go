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
// Package client talks to the query translation/execution service over its
// JSON protocol. Failures split into transport errors (unreachable, non-OK
// without a protocol body) and application errors (well-formed response with
// success=false); the coordinator maps each to its own user-visible state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/prism/pkg/coordinator"
	"github.com/teradata-labs/prism/pkg/resultset"
)

const defaultTimeout = 30 * time.Second

// Client is an HTTP client for the query service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. Default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the service at baseURL, e.g.
// "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interface check: the client serves as the coordinator's query service.
var _ coordinator.QueryService = (*Client)(nil)

type queryEnvelope struct {
	Success   bool            `json:"success"`
	Error     string          `json:"error"`
	ErrorType string          `json:"error_type"`
	Context   json.RawMessage `json:"context"`
	Query     struct {
		Question  string `json:"question"`
		SQLQuery  string `json:"sql_query"`
		ModelUsed string `json:"model_used"`
	} `json:"query"`
	Result struct {
		Columns  []string                     `json:"columns"`
		Data     []map[string]resultset.Value `json:"data"`
		RowCount int                          `json:"row_count"`
	} `json:"result"`
}

// SubmitQuestion sends a natural language question and decodes the result
// set from the response.
func (c *Client) SubmitQuestion(ctx context.Context, question string) (*coordinator.QueryResult, error) {
	body, err := c.post(ctx, "/api/query/natural", map[string]string{"question": question})
	if err != nil {
		return nil, err
	}

	var env queryEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &coordinator.TransportError{Err: fmt.Errorf("malformed response: %w", err)}
	}
	if !env.Success {
		return nil, appError(&env)
	}

	// Decode the raw data array again so the wire order of the row keys can
	// be recovered for responses that omit the columns list.
	var rawResult struct {
		Result struct {
			Data json.RawMessage `json:"data"`
		} `json:"result"`
	}
	_ = json.Unmarshal(body, &rawResult)

	rs, err := resultset.FromRows(env.Result.Columns, env.Result.Data, rawResult.Result.Data)
	if err != nil {
		return nil, &coordinator.TransportError{Err: err}
	}
	return &coordinator.QueryResult{
		Question:  env.Query.Question,
		SQL:       env.Query.SQLQuery,
		ModelUsed: env.Query.ModelUsed,
		Set:       rs,
	}, nil
}

// FetchSuggestions returns suggested questions grouped by category. A flat
// list response folds into the "general" category.
func (c *Client) FetchSuggestions(ctx context.Context) (map[string][]string, error) {
	body, err := c.get(ctx, "/api/suggestions")
	if err != nil {
		return nil, err
	}

	var env struct {
		Success     bool            `json:"success"`
		Error       string          `json:"error"`
		ErrorType   string          `json:"error_type"`
		Suggestions json.RawMessage `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &coordinator.TransportError{Err: fmt.Errorf("malformed response: %w", err)}
	}
	if !env.Success {
		return nil, &coordinator.AppError{Message: env.Error, ErrorType: env.ErrorType}
	}

	var grouped map[string][]string
	if err := json.Unmarshal(env.Suggestions, &grouped); err == nil {
		return grouped, nil
	}
	var flat []string
	if err := json.Unmarshal(env.Suggestions, &flat); err == nil {
		return map[string][]string{"general": flat}, nil
	}
	return nil, &coordinator.TransportError{Err: fmt.Errorf("unrecognized suggestions payload")}
}

// FetchKPIs returns the metric map. Responses grouped one level deep
// (financial/operational/customer buckets) are flattened, and metric values
// wrapped in {value, formatted, type} objects unwrap to the raw value.
func (c *Client) FetchKPIs(ctx context.Context) (map[string]resultset.Value, error) {
	body, err := c.get(ctx, "/api/kpis")
	if err != nil {
		return nil, err
	}

	var env struct {
		Success   bool                       `json:"success"`
		Error     string                     `json:"error"`
		ErrorType string                     `json:"error_type"`
		KPIs      map[string]json.RawMessage `json:"kpis"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &coordinator.TransportError{Err: fmt.Errorf("malformed response: %w", err)}
	}
	if !env.Success {
		return nil, &coordinator.AppError{Message: env.Error, ErrorType: env.ErrorType}
	}

	out := map[string]resultset.Value{}
	for key, raw := range env.KPIs {
		flattenKPI(out, key, raw, 0)
	}
	return out, nil
}

// flattenKPI folds at most one level of category nesting and unwraps
// formatted metric objects into their raw value. Objects nested deeper
// than that are kept under their key as raw JSON text.
func flattenKPI(out map[string]resultset.Value, key string, raw json.RawMessage, depth int) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return
	}
	if raw[0] != '{' {
		var v resultset.Value
		if err := json.Unmarshal(raw, &v); err == nil {
			out[key] = v
		}
		return
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return
	}
	if inner, ok := nested["value"]; ok {
		var v resultset.Value
		if err := json.Unmarshal(inner, &v); err == nil {
			out[key] = v
			return
		}
	}
	if depth >= 1 {
		out[key] = resultset.Text(string(raw))
		return
	}
	for innerKey, innerRaw := range nested {
		flattenKPI(out, innerKey, innerRaw, depth+1)
	}
}

// FetchChartData returns the result set behind a named dashboard chart.
func (c *Client) FetchChartData(ctx context.Context, kind string) (*resultset.ResultSet, error) {
	body, err := c.post(ctx, "/api/charts/data", map[string]string{"chart_type": kind})
	if err != nil {
		return nil, err
	}

	var env struct {
		Success   bool            `json:"success"`
		Error     string          `json:"error"`
		ErrorType string          `json:"error_type"`
		ChartData json.RawMessage `json:"chart_data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &coordinator.TransportError{Err: fmt.Errorf("malformed response: %w", err)}
	}
	if !env.Success {
		return nil, &coordinator.AppError{Message: env.Error, ErrorType: env.ErrorType}
	}

	var rows []map[string]resultset.Value
	if err := json.Unmarshal(env.ChartData, &rows); err != nil {
		return nil, &coordinator.TransportError{Err: fmt.Errorf("malformed chart data: %w", err)}
	}
	rs, err := resultset.FromRows(nil, rows, env.ChartData)
	if err != nil {
		return nil, &coordinator.TransportError{Err: err}
	}
	return rs, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &coordinator.TransportError{Err: err}
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &coordinator.TransportError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, &coordinator.TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// do runs the request and returns the body. Non-2xx responses that still
// carry a protocol envelope surface as application errors; anything else is
// a transport error.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("url", req.URL.String()), zap.Error(err))
		return nil, &coordinator.TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &coordinator.TransportError{Err: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	var env queryEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		return nil, appError(&env)
	}
	return nil, &coordinator.TransportError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
}

func appError(env *queryEnvelope) *coordinator.AppError {
	return &coordinator.AppError{
		Message:   env.Error,
		ErrorType: env.ErrorType,
		Detail:    string(env.Context),
	}
}
