package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/bundlescope/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(RunRow))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id",
		"bundle_path",
		"start_time",
		"end_time",
		"run_duration_ms",
		"total_size",
		"module_count",
		"first_party_bytes",
		"third_party_bytes",
		"platform_bytes",
		"segment_mode",
		"config_params",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestPackageRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(PackageRow))
	require.NotNil(t, s)

	for _, colName := range []string{"run_id", "package_name", "analysis_time", "total_size_bytes", "percentage_of_bundle", "module_count", "installed_version", "install_locations", "estimated_waste"} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func sampleRuns() []RunRow {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Second)
	duration := int32(2000)
	params := `{"map_path":"main.map"}`
	return []RunRow{
		{RunID: 1, BundlePath: "index.android.bundle", StartTime: start, EndTime: &end, RunDurationMs: &duration, TotalSize: 4096, ModuleCount: 12, ThirdPartyBytes: 3000, FirstPartyBytes: 1096, SegmentMode: "structural", ConfigParams: &params},
		{RunID: 2, BundlePath: "main.jsbundle", StartTime: start.Add(time.Hour)}, // still running
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := sampleRuns()

	require.NoError(t, WriteRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[RunRow](file)
	defer reader.Close()

	readData := make([]RunRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	for i := range data {
		assert.Equal(t, data[i].RunID, readData[i].RunID)
		assert.Equal(t, data[i].BundlePath, readData[i].BundlePath)
		assert.Equal(t, data[i].TotalSize, readData[i].TotalSize)
		assert.Equal(t, data[i].SegmentMode, readData[i].SegmentMode)
		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime)
		} else {
			require.NotNil(t, readData[i].EndTime)
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Nanosecond)
		}
		if data[i].ConfigParams == nil {
			assert.Nil(t, readData[i].ConfigParams)
		} else {
			require.NotNil(t, readData[i].ConfigParams)
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams)
		}
	}
}

func TestWritePackageRowsParquetEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WritePackageRowsParquet([]PackageRow{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size(), "footer is written even without rows")
}

func TestWritePackageRowsParquetInvalidPath(t *testing.T) {
	err := WritePackageRowsParquet([]PackageRow{}, "/nonexistent/dir/rows.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestWriteRowsToBuffer(t *testing.T) {
	modules := ConvertModules([]schema.ModuleRecord{
		{ID: 7, ChunkIndex: 0, Path: "node_modules/moment/moment.js", SizeBytes: 900, Package: "moment", Category: schema.ThirdParty, Structural: true},
		{ID: 8, ChunkIndex: 1, Path: "src/App.js", SizeBytes: 100, Category: schema.FirstParty},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, modules))

	reader := parquet.NewGenericReader[ModuleRow](bytes.NewReader(buf.Bytes()))
	defer reader.Close()
	got := make([]ModuleRow, reader.NumRows())
	n, err := reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 2, n)
	assert.Equal(t, modules, got)
}

func TestConvertPackages(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	packages := []schema.PackageAggregate{
		{Name: "lodash", TotalSizeBytes: 200, PercentageOfBundle: 20, MemberModules: []int{1, 2}, InstalledVersion: "4.17.21"},
		{Name: "zod", TotalSizeBytes: 50, PercentageOfBundle: 5, MemberModules: []int{3}},
	}
	dups := []schema.DuplicatePackageFinding{
		{Name: "lodash", InstallLocations: []string{"node_modules/lodash", "node_modules/a/node_modules/lodash"}, TotalSizeBytes: 200, EstimatedWastedBytes: 100},
	}

	rows := ConvertPackages(packages, dups, at)

	require.Len(t, rows, 2)
	assert.Equal(t, int32(2), rows[0].ModuleCount)
	assert.Equal(t, int32(2), rows[0].InstallLocations)
	assert.InDelta(t, 100.0, rows[0].EstimatedWaste, 1e-9)
	require.NotNil(t, rows[0].InstalledVersion)
	assert.Equal(t, "4.17.21", *rows[0].InstalledVersion)
	assert.Nil(t, rows[1].InstalledVersion)
	assert.Equal(t, int32(1), rows[1].InstallLocations)
	assert.Equal(t, at, rows[1].AnalysisTime)
}

func TestConvertRunRecords(t *testing.T) {
	records := []schema.HistoryRunRecord{
		{RunID: 3, BundlePath: "b.bundle", TotalSize: 10, FirstParty: 4, ThirdParty: 5, Platform: 1, SegmentMode: "mixed"},
	}

	rows := ConvertRunRecords(records)

	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].RunID)
	assert.Equal(t, int64(4), rows[0].FirstPartyBytes)
	assert.Equal(t, int64(5), rows[0].ThirdPartyBytes)
	assert.Equal(t, int64(1), rows[0].PlatformBytes)
	assert.Equal(t, "mixed", rows[0].SegmentMode)
}
