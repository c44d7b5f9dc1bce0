package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackChart(t *testing.T) {
	t.Parallel()

	chart := FallbackChart()
	assert.Equal(t, "fallback_educational_chart", chart["chart_id"])
	assert.Equal(t, "line", chart["chart_type"])
	assert.Equal(t, "points", chart["data_format"])

	points := chart["data"].(map[string]any)["points"].([]any)
	require.Len(t, points, 10)
	assert.Equal(t, map[string]any{"x": 9.0, "y": 18.0, "label": "Point 10"}, points[9])

	chart["title"] = "changed"
	assert.Equal(t, "Educational Data Visualization", FallbackChart()["title"], "each call builds a fresh chart")
}

func TestNormalizeCharts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		obj         map[string]any
		wantDropped int
		check       func(t *testing.T, charts []any)
	}{
		{
			name: "missing charts use the fallback",
			obj:  map[string]any{"description": "nothing to draw"},
			check: func(t *testing.T, charts []any) {
				require.Len(t, charts, 1)
				assert.Equal(t, FallbackChart(), charts[0])
			},
		},
		{
			name:        "entries without data are dropped",
			obj:         map[string]any{"charts": []any{"bar chart of sales", map[string]any{"title": "Empty"}}},
			wantDropped: 2,
			check: func(t *testing.T, charts []any) {
				require.Len(t, charts, 1)
				assert.Equal(t, "fallback_educational_chart", charts[0].(map[string]any)["chart_id"])
			},
		},
		{
			name: "partial chart is completed",
			obj: map[string]any{"charts": []any{map[string]any{
				"chart_type": "histogram",
				"data": map[string]any{
					"categories": map[string]any{"labels": []any{"A", "B"}, "values": []any{1.0, 2.0}},
				},
				"styling": map[string]any{"line_style": "wavy", "point_size": -1.0},
			}}},
			check: func(t *testing.T, charts []any) {
				require.Len(t, charts, 1)
				chart := charts[0].(map[string]any)
				assert.Equal(t, "chart_1", chart["chart_id"])
				assert.Equal(t, "Chart 1", chart["title"])
				assert.Equal(t, "", chart["description"])
				assert.Equal(t, "line", chart["chart_type"])
				assert.Equal(t, "categories", chart["data_format"])
				assert.Equal(t, map[string]any{
					"x_axis": "X Values", "y_axis": "Y Values", "x_unit": "", "y_unit": "",
				}, chart["axes"])
				assert.Equal(t, []any{}, chart["annotations"])
				assert.Equal(t, map[string]any{
					"colors": []any{"#2563eb"}, "line_style": "solid", "point_size": 4.0,
				}, chart["styling"])
			},
		},
		{
			name: "declared format without data is inferred",
			obj: map[string]any{"charts": []any{map[string]any{
				"chart_id":    "growth",
				"chart_type":  "scatter",
				"data_format": "function",
				"data": map[string]any{
					"function": map[string]any{},
					"points":   []any{map[string]any{"x": 1.0, "y": 2.0}},
				},
				"annotations": []any{"loose text", map[string]any{"type": "point", "label": "peak"}},
			}}},
			check: func(t *testing.T, charts []any) {
				chart := charts[0].(map[string]any)
				assert.Equal(t, "growth", chart["chart_id"])
				assert.Equal(t, "scatter", chart["chart_type"])
				assert.Equal(t, "points", chart["data_format"])
				assert.Equal(t, []any{map[string]any{"type": "point", "label": "peak"}}, chart["annotations"])
			},
		},
		{
			name: "complete chart is kept as is",
			obj: map[string]any{"charts": []any{map[string]any{
				"chart_id":    "pie_1",
				"chart_type":  "pie",
				"title":       "Energy mix",
				"description": "Share of sources",
				"data_format": "categories",
				"data": map[string]any{
					"categories": map[string]any{"labels": []any{"Solar"}, "values": []any{40.0}},
				},
				"axes":        map[string]any{"x_axis": "Source", "y_axis": "Share", "x_unit": "", "y_unit": "%"},
				"annotations": []any{},
				"styling":     map[string]any{"colors": []any{"#16a34a"}, "line_style": "dashed", "point_size": 6.0},
			}}},
			check: func(t *testing.T, charts []any) {
				chart := charts[0].(map[string]any)
				assert.Equal(t, "Energy mix", chart["title"])
				assert.Equal(t, "%", chart["axes"].(map[string]any)["y_unit"])
				assert.Equal(t, "dashed", chart["styling"].(map[string]any)["line_style"])
				assert.Equal(t, 6.0, chart["styling"].(map[string]any)["point_size"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantDropped, normalizeCharts(tt.obj))
			charts, ok := tt.obj["charts"].([]any)
			require.True(t, ok)
			tt.check(t, charts)
		})
	}
}
