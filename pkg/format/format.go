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
// Package format renders cell and metric values for display. Table cells
// guess their semantic from the column name; KPI tiles format by metric key
// and value type. The two paths intentionally disagree in minor ways (table
// currency is integer-rounded, KPI currency keeps cents) and are not
// reconciled.
package format

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/teradata-labs/prism/pkg/resultset"
)

// Hint names a semantic formatting style.
type Hint string

const (
	HintCurrency   Hint = "currency"
	HintNumber     Hint = "number"
	HintPercentage Hint = "percentage"
	HintRaw        Hint = "raw"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders a value under a semantic hint. Currency is locale-aware and
// integer-rounded (no fractional units), number is a locale-aware grouped
// integer, percentage keeps one decimal place, and raw is the natural string
// form with null shown as "N/A". Non-numeric values under a numeric hint
// fall back to raw.
func Format(v resultset.Value, hint Hint) string {
	switch hint {
	case HintCurrency:
		f, ok := v.Number()
		if !ok {
			return Format(v, HintRaw)
		}
		return printer.Sprintf("$%d", int64(math.Round(f)))
	case HintNumber:
		f, ok := v.Number()
		if !ok {
			return Format(v, HintRaw)
		}
		return printer.Sprintf("%d", int64(math.Round(f)))
	case HintPercentage:
		f, ok := v.Number()
		if !ok {
			return Format(v, HintRaw)
		}
		return fmt.Sprintf("%.1f%%", f)
	default:
		if v.IsNull() {
			return "N/A"
		}
		return v.String()
	}
}

// Cell formats a table cell, guessing the hint from the column name rather
// than from column classification: price/revenue/total columns display as
// currency, other integral numbers as grouped integers, other numbers with
// two fixed decimals, everything else raw.
func Cell(column string, v resultset.Value) string {
	name := strings.ToLower(column)
	if strings.Contains(name, "price") ||
		strings.Contains(name, "revenue") ||
		strings.Contains(name, "total") {
		return Format(v, HintCurrency)
	}
	if f, ok := v.Number(); ok {
		if f == math.Trunc(f) {
			return Format(v, HintNumber)
		}
		return fmt.Sprintf("%.2f", f)
	}
	return Format(v, HintRaw)
}
