// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/prism/pkg/translator"
)

type metadata struct {
	Timestamp    string `json:"timestamp"`
	ResponseType string `json:"response_type"`
}

func newMetadata(responseType string) metadata {
	return metadata{
		Timestamp:    time.Now().Format(time.RFC3339),
		ResponseType: responseType,
	}
}

type queryInfo struct {
	Question  string `json:"question"`
	SQLQuery  string `json:"sql_query"`
	ModelUsed string `json:"model_used"`
}

type resultInfo struct {
	Data            json.RawMessage `json:"data"`
	Columns         []string        `json:"columns"`
	RowCount        int             `json:"row_count"`
	ExecutionTimeMS int64           `json:"execution_time_ms"`
}

type errorResponse struct {
	Success      bool     `json:"success"`
	Error        string   `json:"error"`
	ErrorType    string   `json:"error_type"`
	Context      string   `json:"context,omitempty"`
	GeneratedSQL string   `json:"generated_sql,omitempty"`
	Metadata     metadata `json:"metadata"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error, context string) {
	errorType := classifyError(err)
	s.logger.Error(context, zap.String("error_type", errorType), zap.Error(err))
	s.writeJSON(w, statusForErrorType(errorType), errorResponse{
		Error:     err.Error(),
		ErrorType: errorType,
		Context:   context,
		Metadata:  newMetadata("error"),
	})
}

func (s *Server) writeValidationError(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:     message,
		ErrorType: "validation_error",
		Metadata:  newMetadata("error"),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := s.store.Schema(r.Context())
	if err != nil {
		s.writeError(w, err, "Failed to retrieve database schema")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"schema":  schema,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, err, "Failed to retrieve database statistics")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

func (s *Server) handleNaturalQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		s.writeValidationError(w, "Question is required")
		return
	}
	question := strings.TrimSpace(req.Question)

	translated, err := s.translator.Translate(r.Context(), question)
	if err != nil {
		s.writeError(w, err, "Failed to process natural language query")
		return
	}

	// EXPLAIN before execution so a bad generation surfaces as sql_error
	// with the SQL attached instead of a runtime failure.
	if err := s.store.ValidateQuery(r.Context(), translated.SQL); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:        "Generated SQL is invalid: " + err.Error(),
			ErrorType:    "sql_error",
			GeneratedSQL: translated.SQL,
			Metadata:     newMetadata("error"),
		})
		return
	}

	start := time.Now()
	rs, err := s.store.ExecuteQuery(r.Context(), translated.SQL)
	if err != nil {
		s.writeError(w, err, "Failed to execute query")
		return
	}
	elapsed := time.Since(start)

	entry := s.history.Add(question, translated.SQL, rs.RowCount())
	s.logger.Info("natural query executed",
		zap.String("id", entry.ID),
		zap.String("model", translated.ModelUsed),
		zap.Int("rows", rs.RowCount()))

	data, err := rs.MarshalRowsJSON()
	if err != nil {
		s.writeError(w, err, "Failed to encode result")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"query": queryInfo{
			Question:  question,
			SQLQuery:  translated.SQL,
			ModelUsed: translated.ModelUsed,
		},
		"result": resultInfo{
			Data:            data,
			Columns:         rs.Columns,
			RowCount:        rs.RowCount(),
			ExecutionTimeMS: elapsed.Milliseconds(),
		},
		"metadata": newMetadata("natural_language_query"),
	})
}

func (s *Server) handleSQLQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SQL string `json:"sql"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.SQL) == "" {
		s.writeValidationError(w, "SQL query is required")
		return
	}

	start := time.Now()
	rs, err := s.store.ExecuteSelect(r.Context(), strings.TrimSpace(req.SQL))
	if err != nil {
		s.writeError(w, err, "Failed to execute SQL query")
		return
	}
	elapsed := time.Since(start)

	data, err := rs.MarshalRowsJSON()
	if err != nil {
		s.writeError(w, err, "Failed to encode result")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result": resultInfo{
			Data:            data,
			Columns:         rs.Columns,
			RowCount:        rs.RowCount(),
			ExecutionTimeMS: elapsed.Milliseconds(),
		},
		"metadata": newMetadata("sql_query"),
	})
}

// handleSuggestions returns the canned questions, categorized. With a ?q=
// parameter it instead ranks them against the partial question, best match
// first, so clients can autocomplete as the user types.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"suggestions": translator.SuggestFor(q),
			"metadata":    newMetadata("suggestions"),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"suggestions": categorizeSuggestions(translator.Suggestions()),
		"metadata":    newMetadata("suggestions"),
	})
}

// categorizeSuggestions buckets questions by keyword. Order within a bucket
// follows the source list.
func categorizeSuggestions(suggestions []string) map[string][]string {
	out := map[string][]string{
		"sales":     {},
		"customers": {},
		"products":  {},
		"general":   {},
	}
	for _, sg := range suggestions {
		lower := strings.ToLower(sg)
		switch {
		case containsAny(lower, "sales", "revenue", "profit", "order"):
			out["sales"] = append(out["sales"], sg)
		case containsAny(lower, "customer", "buyer", "client"):
			out["customers"] = append(out["customers"], sg)
		case containsAny(lower, "product", "item", "stock", "inventory"):
			out["products"] = append(out["products"], sg)
		default:
			out["general"] = append(out["general"], sg)
		}
	}
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := s.kpis.get(r.Context())
	if err != nil {
		s.writeError(w, err, "Failed to calculate business KPIs")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"kpis":     kpis,
		"metadata": newMetadata("kpi_data"),
	})
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChartType string `json:"chart_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChartType == "" {
		s.writeValidationError(w, "Chart type is required")
		return
	}

	rs, err := s.store.ChartData(r.Context(), req.ChartType)
	if err != nil {
		s.writeError(w, err, "Failed to retrieve chart data")
		return
	}

	data, err := rs.MarshalRowsJSON()
	if err != nil {
		s.writeError(w, err, "Failed to encode chart data")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"chart_data": data,
		"metadata":   newMetadata("chart_data"),
	})
}
