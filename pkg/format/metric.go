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
package format

import (
	"fmt"
	"strings"

	"github.com/teradata-labs/prism/pkg/resultset"
)

// MetricValue is a KPI value with its display form and inferred type tag.
type MetricValue struct {
	Value     resultset.Value `json:"value"`
	Formatted string          `json:"formatted"`
	Type      string          `json:"type"`
}

// Metric formats a KPI tile value by metric key. Unlike table cells this
// path keeps currency cents. Key matching order matters: "total_revenue"
// contains both "revenue" and "total" and formats as currency because the
// currency keys are checked first.
func Metric(name string, v resultset.Value) MetricValue {
	mv := MetricValue{Value: v, Formatted: v.String(), Type: "text"}

	f, numeric := v.Number()
	if numeric {
		mv.Type = "number"
	}

	key := strings.ToLower(name)
	switch {
	case strings.Contains(key, "revenue") || strings.Contains(key, "value") || strings.Contains(key, "profit"):
		if numeric {
			mv.Formatted = printer.Sprintf("$%.2f", f)
			mv.Type = "currency"
		}
	case strings.Contains(key, "rate") || strings.Contains(key, "percentage"):
		if numeric {
			mv.Formatted = fmt.Sprintf("%.1f%%", f)
			mv.Type = "percentage"
		}
	case strings.Contains(key, "count") || strings.Contains(key, "total"):
		if numeric {
			mv.Formatted = Format(v, HintNumber)
			mv.Type = "count"
		}
	}
	return mv
}
