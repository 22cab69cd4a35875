package outwriter

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/internal/parquet"
	"github.com/huangsam/bundlescope/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func sampleReport() *schema.AnalysisReport {
	modules := []schema.ModuleRecord{
		{ID: 0, ChunkIndex: 0, Path: "src/App.js", SizeBytes: 300, Category: schema.FirstParty, Structural: true},
		{ID: 1, ChunkIndex: 1, Path: "node_modules/moment/moment.js", SizeBytes: 600, Package: "moment", Category: schema.ThirdParty, Structural: true},
		{ID: 2, ChunkIndex: 2, Path: "node_modules/a/node_modules/moment/moment.js", SizeBytes: 100, Package: "moment", Category: schema.ThirdParty},
	}
	entries := make([]schema.ModuleEntry, len(modules))
	for i, m := range modules {
		entries[i] = schema.ModuleEntry{Path: m.Path, Module: m}
	}
	return &schema.AnalysisReport{
		BundlePath: "index.android.bundle",
		AnalyzedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Result: schema.BundleAnalysisResult{
			TotalSize:  1000,
			Categories: schema.CategoryTotals{FirstParty: 300, ThirdParty: 700},
			Packages: []schema.PackageAggregate{
				{Name: "moment", TotalSizeBytes: 700, PercentageOfBundle: 70, MemberModules: []int{1, 2}, InstalledVersion: "2.29.4"},
			},
			Duplicates: []schema.DuplicatePackageFinding{
				{Name: "moment", InstallLocations: []string{"node_modules/a/node_modules/moment", "node_modules/moment"}, TotalSizeBytes: 700, EstimatedWastedBytes: 350},
			},
			Modules:     entries,
			SegmentMode: schema.MixedSegments,
		},
		Suggestions: []schema.Suggestion{
			{RuleID: "heavy-package", Priority: schema.HighPriority, Title: "Replace moment", Detail: "Use dayjs", Package: "moment", EstimatedSavings: 560},
		},
		Unused: []string{"left-pad"},
	}
}

func fileConfig(t *testing.T, mode schema.OutputMode, name string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:       mode,
		OutputFile:   filepath.Join(t.TempDir(), name),
		Precision:    1,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(content)
}

func TestPrintReportText(t *testing.T) {
	cfg := fileConfig(t, schema.TextOut, "report.txt")
	cfg.UseEmojis = true

	require.NoError(t, PrintReport(sampleReport(), cfg, 1500*time.Millisecond))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "📦 Packages")
	assert.Contains(t, out, "Bundle: index.android.bundle")
	assert.Contains(t, out, "moment")
	assert.Contains(t, out, "left-pad")
	assert.Contains(t, out, "Replace moment")
	assert.Contains(t, out, "Analysis completed in 1.5s")
}

func TestPrintReportTextWithoutEmojis(t *testing.T) {
	cfg := fileConfig(t, schema.TextOut, "report.txt")

	require.NoError(t, PrintReport(sampleReport(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "\nPackages\n")
	assert.NotContains(t, out, "📦")
}

func TestPrintReportJSON(t *testing.T) {
	cfg := fileConfig(t, schema.JSONOut, "report.json")

	require.NoError(t, PrintReport(sampleReport(), cfg, time.Second))

	var decoded schema.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, sampleReport().Result, decoded.Result)
	assert.Equal(t, []string{"left-pad"}, decoded.Unused)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &raw))
	modules := raw["result"].(map[string]any)["modules"].([]any)
	first := modules[0].(map[string]any)
	assert.Equal(t, "src/App.js", first["key"])
	assert.Contains(t, first, "value")
}

func TestPrintReportYAML(t *testing.T) {
	cfg := fileConfig(t, schema.YAMLOut, "report.yaml")

	require.NoError(t, PrintReport(sampleReport(), cfg, time.Second))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, "index.android.bundle", decoded["bundle_path"])
}

func TestPrintReportCSV(t *testing.T) {
	cfg := fileConfig(t, schema.CSVOut, "report.csv")

	require.NoError(t, PrintReport(sampleReport(), cfg, time.Second))

	lines := strings.Split(strings.TrimSpace(readOutput(t, cfg)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "rank,package,size_bytes,percentage,label,modules,installed_version", lines[0])
	assert.Equal(t, "1,moment,700,70.0,Critical,2,2.29.4", lines[1])
}

func TestPrintReportXLSX(t *testing.T) {
	cfg := fileConfig(t, schema.XLSXOut, "report.xlsx")

	require.NoError(t, PrintReport(sampleReport(), cfg, time.Second))

	f, err := excelize.OpenFile(cfg.OutputFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Packages", "Summary", "Duplicates", "Modules", "Suggestions"}, f.GetSheetList())

	rows, err := f.GetRows("Modules")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestPrintReportParquet(t *testing.T) {
	cfg := fileConfig(t, schema.ParquetOut, "report.parquet")

	require.NoError(t, PrintReport(sampleReport(), cfg, time.Second))

	file, err := os.Open(cfg.OutputFile)
	require.NoError(t, err)
	defer file.Close()
	reader := pq.NewGenericReader[parquet.PackageRow](file)
	defer reader.Close()

	rows := make([]parquet.PackageRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, "moment", rows[0].PackageName)
	assert.Equal(t, int32(2), rows[0].InstallLocations)
	assert.InDelta(t, 350.0, rows[0].EstimatedWaste, 1e-9)
}

func TestPrintModules(t *testing.T) {
	modules := sampleReport().Result.ModuleList()

	t.Run("text", func(t *testing.T) {
		cfg := fileConfig(t, schema.TextOut, "modules.txt")
		require.NoError(t, PrintModules(modules, cfg, time.Second))
		out := readOutput(t, cfg)
		assert.Contains(t, out, "src/App.js")
		assert.Contains(t, out, "Showing 3 modules")
		assert.Contains(t, out, " *")
	})

	t.Run("json", func(t *testing.T) {
		cfg := fileConfig(t, schema.JSONOut, "modules.json")
		require.NoError(t, PrintModules(modules, cfg, time.Second))
		var decoded []schema.EnrichedModule
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
		require.Len(t, decoded, 3)
		assert.Equal(t, 1, decoded[0].Rank)
		assert.False(t, decoded[0].Synthetic)
	})

	t.Run("csv", func(t *testing.T) {
		cfg := fileConfig(t, schema.CSVOut, "modules.csv")
		require.NoError(t, PrintModules(modules, cfg, time.Second))
		lines := strings.Split(strings.TrimSpace(readOutput(t, cfg)), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "2,1,1,node_modules/moment/moment.js,600,moment,third-party,true,false", lines[2])
	})
}

func TestPrintPackagesAndDuplicates(t *testing.T) {
	report := sampleReport()

	cfg := fileConfig(t, schema.TextOut, "packages.txt")
	require.NoError(t, PrintPackages(report.Result.Packages, cfg, time.Second))
	out := readOutput(t, cfg)
	assert.Contains(t, out, "2.29.4")
	assert.Contains(t, out, "Showing 1 packages")

	cfg = fileConfig(t, schema.TextOut, "dups.txt")
	require.NoError(t, PrintDuplicates(report.Result.Duplicates, cfg, time.Second))
	out = readOutput(t, cfg)
	assert.Contains(t, out, "(root)")
	assert.Contains(t, out, "Found 1 duplicated packages")

	cfg = fileConfig(t, schema.ParquetOut, "dups.parquet")
	assert.Error(t, PrintDuplicates(report.Result.Duplicates, cfg, time.Second))
}

func TestPrintSuggestions(t *testing.T) {
	cfg := fileConfig(t, schema.TextOut, "suggest.txt")
	require.NoError(t, PrintSuggestions(nil, cfg, time.Second))
	assert.Contains(t, readOutput(t, cfg), "No suggestions")

	cfg = fileConfig(t, schema.JSONOut, "suggest.json")
	require.NoError(t, PrintSuggestions(sampleReport().Suggestions, cfg, time.Second))
	var decoded []schema.Suggestion
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, sampleReport().Suggestions, decoded)
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		fixed    int
		expected int
	}{
		{"narrow clamps to minimum", 40, moduleColumnsWidth, 15},
		{"wide clamps to maximum", 300, moduleColumnsWidth, 70},
		{"in between", 100, moduleColumnsWidth, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, GetMaxTablePathWidth(cfg, tt.fixed))
		})
	}
}
