package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractScalar(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    float64
		ok      bool
	}{
		{"bare float", 2.5, 2.5, true},
		{"bare int", 3, 3, true},
		{"json number", json.Number("4.5"), 4.5, true},
		{"magnitude key", map[string]any{"magnitude": 1.5}, 1.5, true},
		{"value key", map[string]any{"value": 0.25}, 0.25, true},
		{"amount key", map[string]any{"amount": 7.0}, 7, true},
		{"scale key", map[string]any{"scale": 9.0}, 9, true},
		{"key precedence", map[string]any{"scale": 9.0, "magnitude": 1.0}, 1, true},
		{"no numeric key", map[string]any{"theta": "x"}, 0, false},
		{"nil payload", nil, 0, false},
		{"string payload", "1.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractScalar(tt.payload)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParamsAccessors(t *testing.T) {
	p := Params{
		"theta": 0.5,
		"name":  "anchor-1",
		"axis":  []any{1.0, 2.0, 2.0},
	}

	assert.Equal(t, 0.5, p.Float("theta", 9))
	assert.Equal(t, 9.0, p.Float("missing", 9))
	assert.Equal(t, "anchor-1", p.String("name", "def"))
	assert.Equal(t, "def", p.String("missing", "def"))
	assert.Equal(t, [3]float64{1, 2, 2}, p.Axis("axis"))
	assert.Equal(t, [3]float64{0, 1, 0}, p.Axis("missing"))
}
