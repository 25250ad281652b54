// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package visualization infers how to chart an arbitrary result set: which
// column is the category or time axis, which columns are measures, and how
// the renderer-agnostic chart payload is assembled from that decision.
package visualization

// ChartType represents the requested chart shape.
type ChartType string

const (
	ChartTypeBar      ChartType = "bar"
	ChartTypeLine     ChartType = "line"
	ChartTypePie      ChartType = "pie"
	ChartTypeDoughnut ChartType = "doughnut"
)

// ColumnKind is the inferred semantic type of a column.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindTemporal    ColumnKind = "temporal"
	KindCategorical ColumnKind = "categorical"
)

// Classification maps column name to inferred kind. Columns whose values are
// all null carry no entry; absence is meaningful, not a default.
type Classification map[string]ColumnKind

// Encoding is the axis/measure selection for one (chart type, result set)
// pair. It is produced fresh on every selection and never mutated.
type Encoding struct {
	Axis     string   // category/time axis column; meaningful only when HasAxis
	HasAxis  bool     // false for the empty-result edge case
	Measures []string // plotted columns, in column order; may be empty
	// Rationale records human-readable reasons for the choices, in the
	// order they were made.
	Rationale []string
}

// Series is one plotted measure: values aligned index-for-index with the
// payload labels plus its colors. Background carries one entry per slice for
// pie/doughnut and a single entry for bar/line; Border is always a single
// color per series.
type Series struct {
	Name       string    `json:"name"`
	Data       []float64 `json:"data"`
	Background []string  `json:"background"`
	Border     string    `json:"border"`
}

// Payload is the renderer-agnostic chart structure: ordered category labels
// (capped at MaxLabels) and one series per measure. It is owned by the
// active chart instance and replaced, never merged, on re-render.
type Payload struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// MaxLabels caps how many rows feed a chart. Earlier rows win; there is no
// sampling. A wider result still exports in full, only the chart truncates.
const MaxLabels = 20

// StyleConfig holds the design tokens applied to generated charts.
type StyleConfig struct {
	ColorPrimary    string
	ColorBackground string
	ColorText       string
	ColorTextMuted  string
	ColorBorder     string
	ColorPalette    []string // fixed series/slice palette, cycled by index

	FontFamily    string
	FontSizeTitle int
	FontSizeLabel int
}

// DefaultStyleConfig returns the Hawk StyleGuide defaults with the ten-color
// series palette.
func DefaultStyleConfig() *StyleConfig {
	return &StyleConfig{
		ColorPrimary:    "#f37021", // Teradata Orange
		ColorBackground: "transparent",
		ColorText:       "#f5f5f5",
		ColorTextMuted:  "#b5b5b5",
		ColorBorder:     "#ffffff1a",
		ColorPalette: []string{
			"#f37021", // Teradata Orange
			"#60a5fa", // Blue
			"#8b5cf6", // Purple
			"#10b981", // Green
			"#f59e0b", // Amber
			"#ec4899", // Pink
			"#14b8a6", // Teal
			"#ef4444", // Red
			"#6366f1", // Indigo
			"#84cc16", // Lime
		},
		FontFamily:    "IBM Plex Mono, monospace",
		FontSizeTitle: 14,
		FontSizeLabel: 11,
	}
}
