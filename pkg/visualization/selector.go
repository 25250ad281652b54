// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package visualization

import (
	"fmt"
	"strings"

	"github.com/teradata-labs/prism/pkg/resultset"
)

// SelectEncoding picks the category axis and measure columns for the
// requested chart shape.
//
// Pie and doughnut charts take the first categorical column as the axis
// (falling back to the first column) and exactly one measure: the first
// numeric column. Bar, line, and any other shape prefer a temporal axis,
// then a categorical one, then the positional first column, and plot every
// numeric column; when no column is numeric every non-axis column becomes a
// measure so something still renders.
//
// An empty result set yields a decision with no axis, no measures, and no
// rationale; callers treat that as nothing to render, not an error. A
// column may serve as both axis and measure when nothing else qualifies;
// that is accepted rather than special-cased.
func SelectEncoding(rs *resultset.ResultSet, cls Classification, chart ChartType) Encoding {
	if rs.Empty() {
		return Encoding{}
	}

	switch chart {
	case ChartTypePie, ChartTypeDoughnut:
		return selectProportional(rs, cls)
	default:
		return selectAxial(rs, cls)
	}
}

// selectProportional handles pie/doughnut: single category dimension, single
// value dimension.
func selectProportional(rs *resultset.ResultSet, cls Classification) Encoding {
	enc := Encoding{}

	enc.Axis = firstOfKind(rs.Columns, cls, KindCategorical)
	if enc.Axis == "" {
		enc.Axis = rs.Columns[0]
	}
	enc.HasAxis = true
	enc.Rationale = append(enc.Rationale, fmt.Sprintf("categories: %s", enc.Axis))

	if m := firstOfKind(rs.Columns, cls, KindNumeric); m != "" {
		enc.Measures = []string{m}
		enc.Rationale = append(enc.Rationale, fmt.Sprintf("values: %s", m))
	}
	return enc
}

// selectAxial handles bar/line and any unrecognized shape.
func selectAxial(rs *resultset.ResultSet, cls Classification) Encoding {
	enc := Encoding{HasAxis: true}

	switch {
	case firstOfKind(rs.Columns, cls, KindTemporal) != "":
		enc.Axis = firstOfKind(rs.Columns, cls, KindTemporal)
		enc.Rationale = append(enc.Rationale, fmt.Sprintf("X axis: %s (Time)", enc.Axis))
	case firstOfKind(rs.Columns, cls, KindCategorical) != "":
		enc.Axis = firstOfKind(rs.Columns, cls, KindCategorical)
		enc.Rationale = append(enc.Rationale, fmt.Sprintf("X axis: %s (Categories)", enc.Axis))
	default:
		enc.Axis = rs.Columns[0]
		enc.Rationale = append(enc.Rationale, fmt.Sprintf("X axis: %s", enc.Axis))
	}

	for _, col := range rs.Columns {
		if cls[col] == KindNumeric {
			enc.Measures = append(enc.Measures, col)
		}
	}
	if len(enc.Measures) == 0 {
		for _, col := range rs.Columns {
			if col != enc.Axis {
				enc.Measures = append(enc.Measures, col)
			}
		}
	}
	if len(enc.Measures) > 0 {
		enc.Rationale = append(enc.Rationale, fmt.Sprintf("series: %s", strings.Join(enc.Measures, ", ")))
	}
	return enc
}

func firstOfKind(columns []string, cls Classification, kind ColumnKind) string {
	for _, col := range columns {
		if cls[col] == kind {
			return col
		}
	}
	return ""
}
