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
package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teradata-labs/prism/internal/log"
	"github.com/teradata-labs/prism/pkg/server"
	"github.com/teradata-labs/prism/pkg/store"
	"github.com/teradata-labs/prism/pkg/translator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API server",
	Long: heredoc.Doc(`
		Run the REST API server: natural language and direct SQL queries,
		schema and statistics, suggested questions, formatted KPIs, the
		predefined dashboard charts, and an SSE stream of query history.

		Without an Anthropic API key (--anthropic-key, ANTHROPIC_API_KEY, or
		the OS keyring) questions are answered by pattern rules and keyword
		fallbacks only.
	`),
	Example: heredoc.Doc(`
		# serve the seeded sample database
		prism seed --db retail.db
		prism serve --db retail.db

		# postgres backend, custom port
		prism serve --driver postgres --dsn "host=db dbname=retail" --addr :8080
	`),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":5000", "listen address")
	serveCmd.Flags().String("driver", store.DriverSQLite, "database driver (sqlite3, postgres, mysql)")
	serveCmd.Flags().String("db", "retail.db", "database DSN (path for sqlite3)")
	serveCmd.Flags().String("anthropic-key", "", "Anthropic API key (or use keyring/env)")
	serveCmd.Flags().String("anthropic-model", "", "Anthropic model override")
	serveCmd.Flags().String("rules", "", "YAML rule file to hot-reload over the embedded rules")
	serveCmd.Flags().String("kpi-refresh", "@every 5m", "cron schedule for the KPI cache refresh")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("database.driver", serveCmd.Flags().Lookup("driver"))
	_ = viper.BindPFlag("database.dsn", serveCmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("llm.anthropic_api_key", serveCmd.Flags().Lookup("anthropic-key"))
	_ = viper.BindPFlag("llm.anthropic_model", serveCmd.Flags().Lookup("anthropic-model"))
	_ = viper.BindPFlag("translator.rules", serveCmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("server.kpi_refresh", serveCmd.Flags().Lookup("kpi-refresh"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := log.Logger()
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(viper.GetString("database.driver"), viper.GetString("database.dsn"),
		store.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	if err := st.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	opts := []translator.Option{translator.WithLogger(logger)}
	if key := resolveAPIKey(); key != "" {
		opts = append(opts, translator.WithLLM(translator.NewLLMClient(translator.LLMConfig{
			APIKey: key,
			Model:  viper.GetString("llm.anthropic_model"),
		})))
		logger.Info("llm translation enabled")
	} else {
		logger.Info("no API key, running on pattern rules and fallbacks")
	}
	tr := translator.New(opts...)

	if rules := viper.GetString("translator.rules"); rules != "" {
		if err := tr.Watch(ctx, rules); err != nil {
			return fmt.Errorf("failed to load rule file: %w", err)
		}
	}

	cfg := server.DefaultConfig()
	cfg.Addr = viper.GetString("server.addr")
	cfg.KPIRefreshSchedule = viper.GetString("server.kpi_refresh")
	srv := server.New(st, tr, cfg, server.WithLogger(logger))

	logger.Info("starting server",
		zap.String("addr", cfg.Addr),
		zap.String("driver", st.Driver()))
	return srv.Start(ctx)
}
