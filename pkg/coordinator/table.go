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
package coordinator

import (
	"github.com/teradata-labs/prism/pkg/format"
)

// TableModel is the ready-to-render table handed to the host UI: the header
// row plus every data row with cells already formatted for display. Cell
// formatting guesses semantics from the column name, which is a deliberately
// different path than the chart's column classification.
type TableModel struct {
	Columns []string   `json:"columns"`
	Cells   [][]string `json:"cells"`
}

// TableModel renders the current result set, or nil when none is displayed.
// All rows are included; only charts truncate.
func (c *Coordinator) TableModel() *TableModel {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	rs := c.current.Set
	tm := &TableModel{Columns: rs.Columns}
	for _, row := range rs.Rows {
		cells := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			cells[i] = format.Cell(col, row[col])
		}
		tm.Cells = append(tm.Cells, cells)
	}
	return tm
}
