// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package server exposes the dashboard REST API: natural language and direct
// SQL queries, schema and statistics, suggestions, formatted KPIs, the
// predefined dashboard charts, and an SSE stream of query history events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/r3labs/sse/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/teradata-labs/prism/internal/history"
	"github.com/teradata-labs/prism/pkg/store"
	"github.com/teradata-labs/prism/pkg/translator"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

const historyStream = "history"

// Config holds server configuration.
type Config struct {
	Addr string
	CORS CORSConfig
	// KPIRefreshSchedule is a cron spec for the KPI cache refresh.
	// Default "@every 5m".
	KPIRefreshSchedule string
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:               ":5000",
		CORS:               DefaultCORSConfig(),
		KPIRefreshSchedule: "@every 5m",
	}
}

// Server is the dashboard HTTP API.
type Server struct {
	store      *store.Store
	translator *translator.Translator
	logger     *zap.Logger
	history    *history.Service
	events     *sse.Server
	cron       *cron.Cron
	kpis       *kpiCache
	cors       CORSConfig
	httpServer *http.Server
	config     Config
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server around a store and translator.
func New(st *store.Store, tr *translator.Translator, config Config, opts ...Option) *Server {
	events := sse.New()
	events.AutoReplay = false
	events.CreateStream(historyStream)

	s := &Server{
		store:      st,
		translator: tr,
		logger:     zap.NewNop(),
		history:    history.NewService(),
		events:     events,
		cron:       cron.New(),
		cors:       config.CORS,
		config:     config,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.kpis = newKPICache(st, s.logger)
	s.httpServer = &http.Server{
		Addr:         config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // no timeout, the SSE stream stays open
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// History returns the query history service.
func (s *Server) History() *history.Service { return s.history }

// Handler builds the routed handler with CORS, compression, and request
// logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/schema", s.handleSchema)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /api/kpis", s.handleKPIs)
	mux.HandleFunc("POST /api/query/natural", s.handleNaturalQuery)
	mux.HandleFunc("POST /api/query/sql", s.handleSQLQuery)
	mux.HandleFunc("POST /api/charts/data", s.handleChartData)
	mux.HandleFunc("GET /api/events", s.events.ServeHTTP)

	var handler http.Handler = mux
	handler = gzhttp.GzipHandler(handler)
	if s.cors.Enabled {
		handler = s.corsMiddleware(handler)
	}
	handler = s.loggingMiddleware(handler)
	return handler
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// Start runs the server until ctx is done. The KPI cache warms immediately
// and refreshes on the configured cron schedule; history entries stream out
// over SSE as they are added.
func (s *Server) Start(ctx context.Context) error {
	if err := s.kpis.refresh(ctx); err != nil {
		s.logger.Warn("initial kpi refresh failed", zap.Error(err))
	}
	schedule := s.config.KPIRefreshSchedule
	if schedule == "" {
		schedule = "@every 5m"
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		if err := s.kpis.refresh(context.Background()); err != nil {
			s.logger.Warn("kpi refresh failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	s.cron.Start()

	go s.pumpHistory(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.config.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// pumpHistory forwards query history events to the SSE stream.
func (s *Server) pumpHistory(ctx context.Context) {
	for ev := range s.history.Subscribe(ctx) {
		data, err := json.Marshal(ev.Payload)
		if err != nil {
			continue
		}
		s.events.Publish(historyStream, &sse.Event{
			Event: []byte("query"),
			Data:  data,
		})
	}
}

// Shutdown stops the HTTP server, the cron scheduler, and the SSE streams.
func (s *Server) Shutdown(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.events.Close()
	return s.httpServer.Shutdown(ctx)
}
