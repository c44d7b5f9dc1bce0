package workers

import (
	"fmt"
	"slices"
)

var (
	chartTypes  = []string{"line", "scatter", "bar", "pie"}
	dataFormats = []string{"points", "function", "categories"}
	lineStyles  = []string{"solid", "dashed", "dotted"}
)

const (
	defaultChartColor = "#2563eb"
	defaultPointSize  = 4
)

// FallbackChart returns the chart used when a visualization response has no
// usable chart. Each call builds a fresh value.
func FallbackChart() map[string]any {
	points := make([]any, 0, 10)
	for i := range 10 {
		points = append(points, map[string]any{
			"x":     float64(i),
			"y":     float64(2 * i),
			"label": fmt.Sprintf("Point %d", i+1),
		})
	}

	return map[string]any{
		"chart_id":    "fallback_educational_chart",
		"chart_type":  "line",
		"title":       "Educational Data Visualization",
		"description": "Standard chart for educational content visualization",
		"data_format": "points",
		"data":        map[string]any{"points": points},
		"axes": map[string]any{
			"x_axis": "X Values",
			"y_axis": "Y Values",
			"x_unit": "",
			"y_unit": "",
		},
		"annotations": []any{},
		"styling": map[string]any{
			"colors":     []any{defaultChartColor},
			"line_style": "solid",
			"point_size": float64(defaultPointSize),
		},
	}
}

// normalizeCharts rewrites obj["charts"] so every entry has the full chart
// shape. Entries without any data are dropped; if none remain the fallback
// chart is used. It returns the number of entries dropped.
func normalizeCharts(obj map[string]any) int {
	raw, _ := obj["charts"].([]any)

	charts := make([]any, 0, len(raw))
	dropped := 0
	for i, entry := range raw {
		chart, ok := entry.(map[string]any)
		if !ok || !normalizeChart(chart, i+1) {
			dropped++
			continue
		}
		charts = append(charts, chart)
	}

	if len(charts) == 0 {
		charts = append(charts, FallbackChart())
	}
	obj["charts"] = charts
	return dropped
}

// normalizeChart fills missing or invalid fields in place and reports
// whether the chart carries data it can be drawn from.
func normalizeChart(chart map[string]any, n int) bool {
	data, _ := chart["data"].(map[string]any)
	format, ok := chartDataFormat(chart, data)
	if !ok {
		return false
	}
	chart["data_format"] = format

	setString(chart, "chart_id", fmt.Sprintf("chart_%d", n), false)
	setString(chart, "title", fmt.Sprintf("Chart %d", n), false)
	setString(chart, "description", "", true)
	if !slices.Contains(chartTypes, stringValue(chart["chart_type"])) {
		chart["chart_type"] = "line"
	}

	axes, _ := chart["axes"].(map[string]any)
	if axes == nil {
		axes = map[string]any{}
	}
	setString(axes, "x_axis", "X Values", false)
	setString(axes, "y_axis", "Y Values", false)
	setString(axes, "x_unit", "", true)
	setString(axes, "y_unit", "", true)
	chart["axes"] = axes

	raw, _ := chart["annotations"].([]any)
	annotations := make([]any, 0, len(raw))
	for _, a := range raw {
		if _, ok := a.(map[string]any); ok {
			annotations = append(annotations, a)
		}
	}
	chart["annotations"] = annotations

	styling, _ := chart["styling"].(map[string]any)
	if styling == nil {
		styling = map[string]any{}
	}
	if colors, _ := styling["colors"].([]any); len(colors) == 0 {
		styling["colors"] = []any{defaultChartColor}
	}
	if !slices.Contains(lineStyles, stringValue(styling["line_style"])) {
		styling["line_style"] = "solid"
	}
	if size, ok := styling["point_size"].(float64); !ok || size <= 0 {
		styling["point_size"] = float64(defaultPointSize)
	}
	chart["styling"] = styling

	return true
}

// chartDataFormat returns the declared data format when data holds it,
// otherwise the first format data does hold.
func chartDataFormat(chart, data map[string]any) (string, bool) {
	if data == nil {
		return "", false
	}

	declared := stringValue(chart["data_format"])
	if slices.Contains(dataFormats, declared) && hasChartData(data[declared]) {
		return declared, true
	}
	for _, format := range dataFormats {
		if hasChartData(data[format]) {
			return format, true
		}
	}
	return "", false
}

func hasChartData(v any) bool {
	switch d := v.(type) {
	case []any:
		return len(d) > 0
	case map[string]any:
		return len(d) > 0
	default:
		return false
	}
}

func setString(m map[string]any, key, fallback string, allowEmpty bool) {
	s, ok := m[key].(string)
	if !ok || (s == "" && !allowEmpty) {
		m[key] = fallback
	}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
