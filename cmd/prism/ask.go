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
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/teradata-labs/prism/internal/log"
	"github.com/teradata-labs/prism/pkg/client"
	"github.com/teradata-labs/prism/pkg/coordinator"
)

var askCmd = &cobra.Command{
	Use:   "ask \"<question>\"",
	Short: "Ask a running server a natural language question",
	Long: heredoc.Doc(`
		Send a question to a running prism server, print the generated SQL
		and the formatted result table, and optionally export the full
		result set.
	`),
	Example: heredoc.Doc(`
		prism ask "What are the top selling products?"
		prism ask --server http://dashboard:5000 "monthly sales" --csv sales.csv
	`),
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("server", "http://localhost:5000", "server base URL")
	askCmd.Flags().String("csv", "", "export all rows as CSV to this file")
	askCmd.Flags().String("xlsx", "", "export all rows as XLSX to this file")
	rootCmd.AddCommand(askCmd)
}

// noRenderer satisfies the coordinator's renderer slot; the CLI renders
// tables only.
type noRenderer struct{}

func (noRenderer) Render([]byte) (coordinator.ChartInstance, error) { return nil, nil }

func runAsk(cmd *cobra.Command, args []string) error {
	serverURL, _ := cmd.Flags().GetString("server")
	csvPath, _ := cmd.Flags().GetString("csv")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")

	svc := client.New(serverURL, client.WithLogger(log.Logger()))
	coord := coordinator.New(svc, noRenderer{}, coordinator.WithLogger(log.Logger()))
	defer coord.Close()

	if err := coord.Submit(cmd.Context(), args[0]); err != nil {
		if info := coord.LastError(); info != nil {
			return fmt.Errorf("%s", info.Message)
		}
		return err
	}

	res := coord.Current()
	fmt.Printf("SQL (%s):\n  %s\n\n", res.ModelUsed, strings.ReplaceAll(strings.TrimSpace(res.SQL), "\n", "\n  "))
	printTable(coord.TableModel())
	fmt.Printf("\n%d row(s)\n", res.Set.RowCount())

	if csvPath != "" {
		if err := exportTo(coord.ExportCSV, csvPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}
	if xlsxPath != "" {
		if err := exportTo(coord.ExportXLSX, xlsxPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", xlsxPath)
	}
	return nil
}

func exportTo(write func(io.Writer) error, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// printTable writes column-aligned output.
func printTable(tm *coordinator.TableModel) {
	if tm == nil {
		return
	}
	widths := make([]int, len(tm.Columns))
	for i, col := range tm.Columns {
		widths[i] = len(col)
	}
	for _, row := range tm.Cells {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(tm.Columns)
	sep := make([]string, len(tm.Columns))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	printRow(sep)
	for _, row := range tm.Cells {
		printRow(row)
	}
}
