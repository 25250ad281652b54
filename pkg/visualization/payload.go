// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package visualization

import (
	"strconv"

	"github.com/teradata-labs/prism/pkg/resultset"
)

// BuildPayload converts a result set and an encoding into the chart payload
// the renderer consumes. Labels are the axis values of the first MaxLabels
// rows in row order, with no dedup and no sorting; wider results truncate
// silently. Cells that are null or not parseable as numbers contribute 0 to
// their series, never null or NaN, so row-count and sum invariants hold
// downstream.
func BuildPayload(rs *resultset.ResultSet, enc Encoding, chart ChartType, style *StyleConfig) *Payload {
	if style == nil {
		style = DefaultStyleConfig()
	}
	p := &Payload{}
	if rs.Empty() || !enc.HasAxis {
		return p
	}

	n := len(rs.Rows)
	if n > MaxLabels {
		n = MaxLabels
	}
	for _, row := range rs.Rows[:n] {
		p.Labels = append(p.Labels, row[enc.Axis].String())
	}

	proportional := chart == ChartTypePie || chart == ChartTypeDoughnut
	for i, measure := range enc.Measures {
		s := Series{Name: measure}
		for _, row := range rs.Rows[:n] {
			s.Data = append(s.Data, numericCell(row[measure]))
		}
		if proportional {
			// Each slice gets its own color, cycling through the palette.
			for j := range s.Data {
				s.Background = append(s.Background, style.ColorPalette[j%len(style.ColorPalette)])
			}
			s.Border = "#ffffff"
		} else {
			c := style.ColorPalette[i%len(style.ColorPalette)]
			s.Background = []string{c}
			s.Border = c
		}
		p.Series = append(p.Series, s)
	}
	return p
}

func numericCell(v resultset.Value) float64 {
	if f, ok := v.Number(); ok {
		return f
	}
	if s, ok := v.Text(); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}
