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
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultLLMModel is the default Claude model for SQL generation.
	DefaultLLMModel = "claude-sonnet-4-5-20250929"
	// DefaultLLMEndpoint is the Anthropic messages endpoint.
	DefaultLLMEndpoint = "https://api.anthropic.com/v1/messages"
	// DefaultLLMMaxTokens bounds the generated query length.
	DefaultLLMMaxTokens = 500
	// DefaultLLMTimeout is the per-request HTTP timeout.
	DefaultLLMTimeout = 30 * time.Second
)

// schemaContext describes the retail schema for the model. Kept in sync with
// store.Seed.
const schemaContext = `Database Schema:

Table: customers
- id (INTEGER, PRIMARY KEY): Customer unique identifier
- name (TEXT): Customer full name
- email (TEXT): Customer email address
- city (TEXT): Customer city/country
- signup_date (DATE): Date when customer first signed up

Table: products
- id (TEXT, PRIMARY KEY): Product stock code
- name (TEXT): Product name/description
- category (TEXT): Product category
- price (DECIMAL): Product unit price
- stock (INTEGER): Current stock quantity

Table: orders
- id (INTEGER, PRIMARY KEY): Order unique identifier
- customer_id (INTEGER): Foreign key to customers.id
- product_id (TEXT): Foreign key to products.id
- quantity (INTEGER): Quantity ordered
- order_date (DATE): Date of the order
- total (DECIMAL): Total order amount (quantity * price)

Table: sales
- id (INTEGER, PRIMARY KEY): Sales record unique identifier
- order_id (INTEGER): Foreign key to orders.id
- revenue (DECIMAL): Revenue from the sale
- profit_margin (DECIMAL): Profit margin percentage (0-1)
- sales_date (DATE): Date of the sale

Date Format: Use 'YYYY-MM-DD' format for dates.`

const systemPrompt = "You are an expert SQL developer. Convert natural language questions " +
	"to SQL queries based on the provided database schema. Always return valid SQLite queries."

// LLMConfig holds configuration for the LLM client.
type LLMConfig struct {
	APIKey      string
	Model       string        // Default: claude-sonnet-4-5-20250929
	Endpoint    string        // Default: https://api.anthropic.com/v1/messages
	Timeout     time.Duration // Default: 30s
	MaxTokens   int           // Default: 500
	Temperature float64
}

// LLMClient generates SQL through the Anthropic messages API.
type LLMClient struct {
	apiKey      string
	model       string
	endpoint    string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewLLMClient creates a client with defaults filled in.
func NewLLMClient(config LLMConfig) *LLMClient {
	if config.Model == "" {
		config.Model = DefaultLLMModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultLLMEndpoint
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultLLMTimeout
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultLLMMaxTokens
	}
	return &LLMClient{
		apiKey:      config.APIKey,
		model:       config.Model,
		endpoint:    config.Endpoint,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		httpClient:  &http.Client{Timeout: config.Timeout},
	}
}

// Model returns the configured model identifier.
func (c *LLMClient) Model() string { return c.model }

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// GenerateSQL asks the model to translate the question against the retail
// schema and returns the cleaned query.
func (c *LLMClient) GenerateSQL(ctx context.Context, question string) (string, error) {
	req := messagesRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		System:      systemPrompt,
		Messages: []message{
			{Role: "user", Content: sqlPrompt(question)},
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp messagesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return cleanSQL(block.Text), nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}

func sqlPrompt(question string) string {
	return fmt.Sprintf(`%s

Instructions:
1. Convert the following natural language question to a SQL query
2. Use only the tables and columns defined in the schema above
3. Return ONLY the SQL query, no explanations or markdown formatting
4. Ensure the query is valid SQLite syntax
5. Use appropriate JOINs when data from multiple tables is needed
6. For aggregations, use appropriate GROUP BY clauses
7. Limit results to reasonable numbers (e.g. top 10) unless specified otherwise

Question: %s

SQL Query:`, schemaContext, question)
}

// cleanSQL strips markdown fences and guarantees a trailing semicolon.
func cleanSQL(raw string) string {
	sql := strings.TrimSpace(raw)
	if strings.HasPrefix(sql, "```sql") {
		sql = sql[len("```sql"):]
	} else if strings.HasPrefix(sql, "```") {
		sql = sql[len("```"):]
	}
	sql = strings.TrimSuffix(strings.TrimSpace(sql), "```")
	sql = strings.TrimSpace(sql)
	if !strings.HasSuffix(sql, ";") {
		sql += ";"
	}
	return sql
}
