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

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/teradata-labs/prism/internal/log"
	"github.com/teradata-labs/prism/pkg/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create and populate the sample retail database",
	Long: heredoc.Doc(`
		Create the retail schema (customers, products, orders, sales) and
		fill it with deterministic sample data. The target database must be
		empty.
	`),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().String("driver", store.DriverSQLite, "database driver (sqlite3, postgres, mysql)")
	seedCmd.Flags().String("db", "retail.db", "database DSN (path for sqlite3)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	driver, _ := cmd.Flags().GetString("driver")
	dsn, _ := cmd.Flags().GetString("db")

	st, err := store.Open(driver, dsn, store.WithLogger(log.Logger()))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Seed(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("Seeded %s\n", dsn)
	return nil
}
