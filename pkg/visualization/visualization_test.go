// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package visualization

import (
	"reflect"
	"strings"
	"testing"

	"github.com/teradata-labs/prism/pkg/resultset"
)

func monthRevenue() *resultset.ResultSet {
	rs := resultset.New("month", "revenue")
	rs.Append(resultset.Row{"month": resultset.Text("2024-01"), "revenue": resultset.Number(1000)})
	rs.Append(resultset.Row{"month": resultset.Text("2024-02"), "revenue": resultset.Number(2000)})
	return rs
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rs   *resultset.ResultSet
		want Classification
	}{
		{
			name: "month and revenue",
			rs:   monthRevenue(),
			want: Classification{"month": KindTemporal, "revenue": KindNumeric},
		},
		{
			name: "first non-null value wins",
			rs: func() *resultset.ResultSet {
				rs := resultset.New("v")
				rs.Append(resultset.Row{"v": resultset.Null()})
				rs.Append(resultset.Row{"v": resultset.Text("widget")})
				rs.Append(resultset.Row{"v": resultset.Number(3)})
				return rs
			}(),
			want: Classification{"v": KindCategorical},
		},
		{
			name: "all-null column omitted",
			rs: func() *resultset.ResultSet {
				rs := resultset.New("a", "b")
				rs.Append(resultset.Row{"a": resultset.Number(1), "b": resultset.Null()})
				return rs
			}(),
			want: Classification{"a": KindNumeric},
		},
		{
			name: "date shape without valid date stays categorical",
			rs: func() *resultset.ResultSet {
				rs := resultset.New("d")
				rs.Append(resultset.Row{"d": resultset.Text("2024-13-40")})
				return rs
			}(),
			want: Classification{"d": KindCategorical},
		},
		{
			name: "slash dates are temporal",
			rs: func() *resultset.ResultSet {
				rs := resultset.New("d", "e")
				rs.Append(resultset.Row{"d": resultset.Text("12/25/2024"), "e": resultset.Text("2024/12/25")})
				return rs
			}(),
			want: Classification{"d": KindTemporal, "e": KindTemporal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.rs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	rs := monthRevenue()
	first := Classify(rs)
	for i := 0; i < 5; i++ {
		if got := Classify(rs); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed: %v vs %v", i, got, first)
		}
	}
}

func TestSelectEncodingLine(t *testing.T) {
	rs := monthRevenue()
	enc := SelectEncoding(rs, Classify(rs), ChartTypeLine)

	if enc.Axis != "month" {
		t.Errorf("axis = %q, want month", enc.Axis)
	}
	if !reflect.DeepEqual(enc.Measures, []string{"revenue"}) {
		t.Errorf("measures = %v, want [revenue]", enc.Measures)
	}
	if len(enc.Rationale) == 0 || !strings.Contains(enc.Rationale[0], "(Time)") {
		t.Errorf("rationale = %v, want temporal axis reason", enc.Rationale)
	}
}

func TestSelectEncodingAxisPriority(t *testing.T) {
	// Temporal beats categorical beats positional-first, in that order.
	rs := resultset.New("count", "city", "day")
	rs.Append(resultset.Row{
		"count": resultset.Number(5),
		"city":  resultset.Text("Berlin"),
		"day":   resultset.Text("2024-03-01"),
	})

	cls := Classify(rs)
	if enc := SelectEncoding(rs, cls, ChartTypeBar); enc.Axis != "day" {
		t.Errorf("axis = %q, want temporal day", enc.Axis)
	}

	cls["day"] = KindCategorical
	if enc := SelectEncoding(rs, cls, ChartTypeBar); enc.Axis != "city" {
		t.Errorf("axis = %q, want first categorical city", enc.Axis)
	}

	cls = Classification{"count": KindNumeric}
	if enc := SelectEncoding(rs, cls, ChartTypeBar); enc.Axis != "count" {
		t.Errorf("axis = %q, want positional first count", enc.Axis)
	}
}

func TestSelectEncodingPieSingleMeasure(t *testing.T) {
	rs := resultset.New("category", "count", "revenue")
	rs.Append(resultset.Row{
		"category": resultset.Text("Gifts"),
		"count":    resultset.Number(10),
		"revenue":  resultset.Number(150),
	})

	enc := SelectEncoding(rs, Classify(rs), ChartTypePie)

	if enc.Axis != "category" {
		t.Errorf("axis = %q, want category", enc.Axis)
	}
	// Single-series constraint: only the first numeric column, even though
	// revenue is numeric too.
	if !reflect.DeepEqual(enc.Measures, []string{"count"}) {
		t.Errorf("measures = %v, want [count]", enc.Measures)
	}
	wantRationale := []string{"categories: category", "values: count"}
	if !reflect.DeepEqual(enc.Rationale, wantRationale) {
		t.Errorf("rationale = %v, want %v", enc.Rationale, wantRationale)
	}
}

func TestSelectEncodingEmptyResult(t *testing.T) {
	enc := SelectEncoding(resultset.New("a"), Classification{}, ChartTypeBar)
	if enc.HasAxis || len(enc.Measures) != 0 || len(enc.Rationale) != 0 {
		t.Errorf("empty result should yield zero encoding, got %+v", enc)
	}
}

func TestSelectEncodingNoNumericFallback(t *testing.T) {
	rs := resultset.New("name", "city")
	rs.Append(resultset.Row{"name": resultset.Text("a"), "city": resultset.Text("x")})

	enc := SelectEncoding(rs, Classify(rs), ChartTypeBar)
	if enc.Axis != "name" {
		t.Errorf("axis = %q", enc.Axis)
	}
	if !reflect.DeepEqual(enc.Measures, []string{"city"}) {
		t.Errorf("measures = %v, want every non-axis column", enc.Measures)
	}
}

func TestBuildPayloadScenario(t *testing.T) {
	rs := monthRevenue()
	enc := SelectEncoding(rs, Classify(rs), ChartTypeLine)
	p := BuildPayload(rs, enc, ChartTypeLine, nil)

	if !reflect.DeepEqual(p.Labels, []string{"2024-01", "2024-02"}) {
		t.Errorf("labels = %v", p.Labels)
	}
	if len(p.Series) != 1 || p.Series[0].Name != "revenue" {
		t.Fatalf("series = %+v", p.Series)
	}
	if !reflect.DeepEqual(p.Series[0].Data, []float64{1000, 2000}) {
		t.Errorf("data = %v", p.Series[0].Data)
	}
}

func TestBuildPayloadLabelCap(t *testing.T) {
	rs := resultset.New("name", "n")
	for i := 0; i < 25; i++ {
		rs.Append(resultset.Row{
			"name": resultset.Text(string(rune('a' + i))),
			"n":    resultset.Number(float64(i)),
		})
	}

	enc := SelectEncoding(rs, Classify(rs), ChartTypeBar)
	p := BuildPayload(rs, enc, ChartTypeBar, nil)

	if len(p.Labels) != MaxLabels {
		t.Fatalf("labels = %d, want %d", len(p.Labels), MaxLabels)
	}
	// Exactly the first 20 rows, in original order.
	for i := 0; i < MaxLabels; i++ {
		want := string(rune('a' + i))
		if p.Labels[i] != want {
			t.Errorf("labels[%d] = %q, want %q", i, p.Labels[i], want)
		}
	}
	if len(p.Series[0].Data) != MaxLabels {
		t.Errorf("series length = %d, want %d", len(p.Series[0].Data), MaxLabels)
	}
}

func TestBuildPayloadMissingValuesBecomeZero(t *testing.T) {
	rs := resultset.New("name", "n")
	rs.Append(resultset.Row{"name": resultset.Text("a"), "n": resultset.Number(1)})
	rs.Append(resultset.Row{"name": resultset.Text("b"), "n": resultset.Null()})
	rs.Append(resultset.Row{"name": resultset.Text("c"), "n": resultset.Text("oops")})

	enc := SelectEncoding(rs, Classify(rs), ChartTypeBar)
	p := BuildPayload(rs, enc, ChartTypeBar, nil)

	if !reflect.DeepEqual(p.Series[0].Data, []float64{1, 0, 0}) {
		t.Errorf("data = %v, want nulls and junk as 0", p.Series[0].Data)
	}
}

func TestBuildPayloadColors(t *testing.T) {
	style := DefaultStyleConfig()

	// Pie: distinct slice colors, cycling past the palette size.
	rs := resultset.New("cat", "n")
	for i := 0; i < 12; i++ {
		rs.Append(resultset.Row{
			"cat": resultset.Text(string(rune('a' + i))),
			"n":   resultset.Number(1),
		})
	}
	enc := SelectEncoding(rs, Classify(rs), ChartTypePie)
	p := BuildPayload(rs, enc, ChartTypePie, style)

	if len(p.Series[0].Background) != 12 {
		t.Fatalf("slice colors = %d, want 12", len(p.Series[0].Background))
	}
	if p.Series[0].Background[10] != style.ColorPalette[0] {
		t.Errorf("slice 10 = %q, want palette cycle %q", p.Series[0].Background[10], style.ColorPalette[0])
	}

	// Bar: one color per series, fill == stroke.
	rs2 := resultset.New("cat", "a", "b")
	rs2.Append(resultset.Row{
		"cat": resultset.Text("x"),
		"a":   resultset.Number(1),
		"b":   resultset.Number(2),
	})
	enc2 := SelectEncoding(rs2, Classify(rs2), ChartTypeBar)
	p2 := BuildPayload(rs2, enc2, ChartTypeBar, style)

	if len(p2.Series) != 2 {
		t.Fatalf("series = %d, want 2", len(p2.Series))
	}
	for i, s := range p2.Series {
		want := style.ColorPalette[i%len(style.ColorPalette)]
		if len(s.Background) != 1 || s.Background[0] != want || s.Border != want {
			t.Errorf("series %d colors = %v/%v, want %q", i, s.Background, s.Border, want)
		}
	}
}

func TestOptionsGenerator(t *testing.T) {
	rs := monthRevenue()
	enc := SelectEncoding(rs, Classify(rs), ChartTypeLine)
	p := BuildPayload(rs, enc, ChartTypeLine, nil)

	raw, err := NewOptionsGenerator(nil).Generate(p, ChartTypeLine, "Revenue")
	if err != nil {
		t.Fatal(err)
	}
	cfg := string(raw)
	for _, want := range []string{`"type":"line"`, `"2024-01"`, `"label":"revenue"`, `"text":"Revenue"`} {
		if !strings.Contains(cfg, want) {
			t.Errorf("config missing %s: %s", want, cfg)
		}
	}
}
