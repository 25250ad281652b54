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
package resultset

import (
	"bufio"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteCSV serializes every row (not a truncated view) as delimited text.
// The header is the column names in original order. Text cells are wrapped
// in double quotes, numeric cells are written bare, nulls become empty
// fields. Embedded delimiters are not escaped beyond the quoting; that is a
// documented limitation of the export format.
func (rs *ResultSet) WriteCSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, col := range rs.Columns {
		if i > 0 {
			if err := bw.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(col); err != nil {
			return err
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	for _, row := range rs.Rows {
		for i, col := range rs.Columns {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if err := writeCSVCell(bw, row[col]); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeCSVCell wraps string cells in double quotes verbatim, with no
// escaping of the content. Numbers and nulls are written bare.
func writeCSVCell(bw *bufio.Writer, v Value) error {
	if s, ok := v.Text(); ok {
		if err := bw.WriteByte('"'); err != nil {
			return err
		}
		if _, err := bw.WriteString(s); err != nil {
			return err
		}
		return bw.WriteByte('"')
	}
	_, err := bw.WriteString(v.String())
	return err
}

// WriteXLSX serializes every row as a single-sheet workbook. Numeric cells
// stay numeric so spreadsheet formulas work against the export.
func (rs *ResultSet) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	for i, col := range rs.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	for r, row := range rs.Rows {
		for c, col := range rs.Columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			v := row[col]
			switch v.Kind() {
			case KindNumber:
				n, _ := v.Number()
				err = f.SetCellValue(sheet, cell, n)
			case KindText:
				s, _ := v.Text()
				err = f.SetCellValue(sheet, cell, s)
			default:
				// null cells stay blank
			}
			if err != nil {
				return err
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
