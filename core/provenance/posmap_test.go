package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositionMap(t *testing.T) {
	pm, err := ParsePositionMap(`{"version":3,"sources":["src/App.js","node_modules/axios/index.js"],"mappings":"AAAA"}`)
	require.NoError(t, err)
	assert.Equal(t, 2, pm.Len())

	src, ok := pm.Source(1)
	assert.True(t, ok)
	assert.Equal(t, "node_modules/axios/index.js", src)

	_, ok = pm.Source(2)
	assert.False(t, ok)
	_, ok = pm.Source(-1)
	assert.False(t, ok)
}

func TestParsePositionMapErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", `{"sources":[`},
		{"missing sources", `{"version":3}`},
		{"null sources", `{"sources":null}`},
		{"wrong type", `{"sources":"src/App.js"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, err := ParsePositionMap(tt.input)
			assert.Error(t, err)
			assert.Nil(t, pm)
			assert.Nil(t, LoadPositionMap(tt.input))
		})
	}

	_, err := ParsePositionMap(`{}`)
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestPositionMapNilSafe(t *testing.T) {
	var pm *PositionMap
	_, ok := pm.Source(0)
	assert.False(t, ok)
	assert.Equal(t, 0, pm.Len())
	assert.Nil(t, LoadPositionMap(""))
}

func TestPositionMapEmptyEntry(t *testing.T) {
	pm := LoadPositionMap(`{"sources":["","src/b.js"]}`)
	require.NotNil(t, pm)
	_, ok := pm.Source(0)
	assert.False(t, ok)
}
