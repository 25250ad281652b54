// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package visualization

import (
	"encoding/json"
	"fmt"
)

// OptionsGenerator turns a chart payload into the declarative config object
// handed to the host's generic chart renderer.
type OptionsGenerator struct {
	style *StyleConfig
}

// NewOptionsGenerator creates a generator. A nil style uses the defaults.
func NewOptionsGenerator(style *StyleConfig) *OptionsGenerator {
	if style == nil {
		style = DefaultStyleConfig()
	}
	return &OptionsGenerator{style: style}
}

// Generate creates the renderer config JSON for a payload and chart type.
// The document is self-contained: type, data (labels plus one dataset per
// series), and display options. The renderer draws it without consulting the
// result set again.
func (og *OptionsGenerator) Generate(p *Payload, chart ChartType, title string) (json.RawMessage, error) {
	datasets := make([]interface{}, 0, len(p.Series))
	for _, s := range p.Series {
		var background interface{}
		if len(s.Background) == 1 {
			background = s.Background[0]
		} else {
			background = s.Background
		}
		ds := map[string]interface{}{
			"label":           s.Name,
			"data":            s.Data,
			"backgroundColor": background,
			"borderColor":     s.Border,
			"borderWidth":     1,
		}
		if chart == ChartTypeLine {
			ds["fill"] = false
			ds["tension"] = 0.3
		}
		datasets = append(datasets, ds)
	}

	config := map[string]interface{}{
		"type": string(chart),
		"data": map[string]interface{}{
			"labels":   p.Labels,
			"datasets": datasets,
		},
		"options": map[string]interface{}{
			"responsive":          true,
			"maintainAspectRatio": false,
			"plugins": map[string]interface{}{
				"legend": map[string]interface{}{
					"display": len(p.Series) > 1 || chart == ChartTypePie || chart == ChartTypeDoughnut,
					"labels": map[string]interface{}{
						"color": og.style.ColorText,
						"font":  og.fontConfig(og.style.FontSizeLabel),
					},
				},
				"title": map[string]interface{}{
					"display": title != "",
					"text":    title,
					"color":   og.style.ColorText,
					"font":    og.fontConfig(og.style.FontSizeTitle),
				},
			},
		},
	}

	if chart == ChartTypeBar || chart == ChartTypeLine {
		config["options"].(map[string]interface{})["scales"] = map[string]interface{}{
			"x": og.axisConfig(),
			"y": og.axisConfig(),
		}
	}

	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal renderer config: %w", err)
	}
	return raw, nil
}

func (og *OptionsGenerator) fontConfig(size int) map[string]interface{} {
	return map[string]interface{}{
		"family": og.style.FontFamily,
		"size":   size,
	}
}

func (og *OptionsGenerator) axisConfig() map[string]interface{} {
	return map[string]interface{}{
		"ticks": map[string]interface{}{
			"color": og.style.ColorTextMuted,
			"font":  og.fontConfig(og.style.FontSizeLabel),
		},
		"grid": map[string]interface{}{
			"color": og.style.ColorBorder,
		},
	}
}
