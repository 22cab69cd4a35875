package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		part  int64
		total int64
		want  float64
	}{
		{"half", 50, 100, 50.0},
		{"all", 100, 100, 100.0},
		{"none", 0, 100, 0.0},
		{"zero total", 10, 0, 0.0},
		{"negative total", 10, -5, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentage(tt.part, tt.total), 1e-9)
		})
	}
}

func TestShortLocation(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"node_modules/lodash", "(root)"},
		{"node_modules/foo/node_modules/lodash", "node_modules/foo"},
		{"node_modules/@scope/x/node_modules/@babel/runtime", "node_modules/@scope/x"},
		{"", "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortLocation(tt.location))
		})
	}
}

func TestFormatLocations(t *testing.T) {
	assert.Equal(t, "", FormatLocations(nil))
	assert.Equal(t, "a, b", FormatLocations([]string{"a", "b"}))
}
