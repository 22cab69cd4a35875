package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModulesByPath(t *testing.T) {
	result := BundleAnalysisResult{
		Modules: []ModuleEntry{
			{Path: "src/a.js", Module: ModuleRecord{ID: 1, Path: "src/a.js"}},
			{Path: "src/b.js", Module: ModuleRecord{ID: 2, Path: "src/b.js"}},
			{Path: "src/a.js", Module: ModuleRecord{ID: 3, Path: "src/a.js"}},
		},
	}

	byPath := result.ModulesByPath()
	require.Len(t, byPath, 2)
	assert.Len(t, byPath["src/a.js"], 2)
	assert.Equal(t, 1, byPath["src/a.js"][0].ID)
	assert.Equal(t, 3, byPath["src/a.js"][1].ID)

	list := result.ModuleList()
	require.Len(t, list, 3)
	assert.Equal(t, 2, list[1].ID)
}

func TestModuleListOnReturnedResult(t *testing.T) {
	build := func() BundleAnalysisResult {
		return BundleAnalysisResult{Modules: []ModuleEntry{{Path: "src/a.js", Module: ModuleRecord{ID: 4}}}}
	}

	list := build().ModuleList()
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].ID)
	assert.Len(t, build().ModulesByPath()["src/a.js"], 1)
}

func TestModulesSerializeAsKeyValuePairs(t *testing.T) {
	result := BundleAnalysisResult{
		Modules: []ModuleEntry{
			{Path: "node_modules/x/index.js", Module: ModuleRecord{ID: 7, Path: "node_modules/x/index.js", SizeBytes: 12}},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	modules, ok := raw["modules"].([]any)
	require.True(t, ok)
	require.Len(t, modules, 1)
	pair := modules[0].(map[string]any)
	assert.Equal(t, "node_modules/x/index.js", pair["key"])
	value := pair["value"].(map[string]any)
	assert.Equal(t, float64(7), value["id"])
}

func TestCategoryTotals(t *testing.T) {
	c := CategoryTotals{FirstParty: 1, ThirdParty: 2, PlatformRuntime: 4}
	assert.Equal(t, int64(7), c.Sum())
	assert.Equal(t, int64(2), c.Total(ThirdParty))
	assert.Equal(t, int64(4), c.Total(PlatformRuntime))
	assert.Equal(t, int64(0), c.Total(Category("bogus")))
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, HighPriority.Rank(), MediumPriority.Rank())
	assert.Less(t, MediumPriority.Rank(), LowPriority.Rank())
	assert.Equal(t, LowPriority.Rank(), Priority("other").Rank())
}
