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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/teradata-labs/prism/internal/log"
)

// keyringService is the service name used for OS keyring lookups.
const keyringService = "prism"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Prism - natural language dashboard for tabular data",
	Long: `Prism turns natural language questions into SQL, runs them against a
retail database, and infers data tables and charts from the results.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./prism.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log in JSON format")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.json", rootCmd.PersistentFlags().Lookup("log-json"))
}

// initConfig reads the config file and environment. Env vars use the PRISM_
// prefix with underscores, e.g. PRISM_SERVER_ADDR.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prism")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.prism")
	}

	viper.SetEnvPrefix("PRISM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	log.Init(viper.GetString("logging.level"), viper.GetBool("logging.json"))
}

// resolveAPIKey finds the Anthropic API key: flag/config first, then the
// ANTHROPIC_API_KEY environment variable, then the OS keyring. An empty
// result disables the LLM path; pattern rules and fallbacks still work.
func resolveAPIKey() string {
	if key := viper.GetString("llm.anthropic_api_key"); key != "" {
		return key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key
	}
	key, err := keyring.Get(keyringService, "anthropic_api_key")
	if err != nil {
		return ""
	}
	return key
}
