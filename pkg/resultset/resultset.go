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
// Package resultset models the tabular data returned by a query: an ordered
// list of column names plus rows of tagged-union cell values. A ResultSet is
// produced once per query response and never mutated afterwards; the next
// response replaces it wholesale.
package resultset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row maps column name to cell value. Every row of a well-formed ResultSet
// carries every declared column key; missing cells are explicit nulls.
type Row map[string]Value

// ResultSet is an ordered set of columns and rows. Column order is display
// order.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// New returns an empty ResultSet with the given column order.
func New(columns ...string) *ResultSet {
	return &ResultSet{Columns: columns}
}

// Append adds a row, filling any missing declared column with null so the
// every-row-has-every-key invariant holds.
func (rs *ResultSet) Append(row Row) {
	if row == nil {
		row = Row{}
	}
	for _, col := range rs.Columns {
		if _, ok := row[col]; !ok {
			row[col] = Null()
		}
	}
	rs.Rows = append(rs.Rows, row)
}

// RowCount returns the number of rows.
func (rs *ResultSet) RowCount() int { return len(rs.Rows) }

// Empty reports whether there is nothing to display: no columns or no rows.
func (rs *ResultSet) Empty() bool {
	return rs == nil || len(rs.Columns) == 0 || len(rs.Rows) == 0
}

// Column returns the values of one column in row order.
func (rs *ResultSet) Column(name string) []Value {
	out := make([]Value, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		out = append(out, row[name])
	}
	return out
}

// MarshalRowsJSON serializes the rows as a JSON array of objects with keys
// in column order. encoding/json randomizes map key order; clients recover
// column order from the wire, so the order must be written explicitly.
func (rs *ResultSet) MarshalRowsJSON() (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rs.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range rs.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			cell, err := json.Marshal(row[col])
			if err != nil {
				return nil, err
			}
			buf.Write(cell)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// FromRows builds a ResultSet from decoded row maps. When columns is empty
// (some endpoints return bare row arrays) the order is recovered from raw,
// the raw JSON array the rows were decoded from, because Go maps do not
// preserve the key order the wire carried.
func FromRows(columns []string, rows []map[string]Value, raw json.RawMessage) (*ResultSet, error) {
	if len(columns) == 0 && len(rows) > 0 {
		var err error
		columns, err = firstObjectKeys(raw)
		if err != nil {
			return nil, fmt.Errorf("recover column order: %w", err)
		}
	}
	rs := New(columns...)
	for _, m := range rows {
		rs.Append(Row(m))
	}
	return rs, nil
}

// firstObjectKeys scans the first object of a JSON array and returns its
// top-level keys in wire order.
func firstObjectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected JSON array, got %v", tok)
	}
	tok, err = dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var keys []string
	depth := 0
	for {
		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				if d == '}' && depth == 0 {
					return keys, nil
				}
				depth--
			}
			continue
		}
		if depth == 0 {
			// At depth 0 every token is a key followed by its value;
			// skip the value so nested keys are not collected.
			keys = append(keys, fmt.Sprint(tok))
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
	}
}
