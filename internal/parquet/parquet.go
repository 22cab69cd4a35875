// Package parquet provides row types and writers for exporting bundle analysis
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/bundlescope/schema"
	"github.com/parquet-go/parquet-go"
)

// RunRow represents a single analysis run with its bundle totals.
// This struct maps to the bundlescope_runs database table.
type RunRow struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// BundlePath is the bundle that was analyzed
	BundlePath string `parquet:"bundle_path,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalSize       int64  `parquet:"total_size,snappy"`
	ModuleCount     int32  `parquet:"module_count,snappy"`
	FirstPartyBytes int64  `parquet:"first_party_bytes,snappy"`
	ThirdPartyBytes int64  `parquet:"third_party_bytes,snappy"`
	PlatformBytes   int64  `parquet:"platform_bytes,snappy"`
	SegmentMode     string `parquet:"segment_mode,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// PackageRow is one package aggregate recorded for a run.
// This struct maps to the bundlescope_package_rows database table.
type PackageRow struct {
	RunID              int64     `parquet:"run_id,snappy"`
	PackageName        string    `parquet:"package_name,snappy,dict"`
	AnalysisTime       time.Time `parquet:"analysis_time,snappy"`
	TotalSizeBytes     int64     `parquet:"total_size_bytes,snappy"`
	PercentageOfBundle float64   `parquet:"percentage_of_bundle,snappy"`
	ModuleCount        int32     `parquet:"module_count,snappy"`
	InstalledVersion   *string   `parquet:"installed_version,optional,snappy"`
	InstallLocations   int32     `parquet:"install_locations,snappy"`
	EstimatedWaste     float64   `parquet:"estimated_waste,snappy"`
}

// ModuleRow is one module of a single analysis, used by --output parquet.
type ModuleRow struct {
	ID         int64  `parquet:"id,snappy"`
	ChunkIndex int64  `parquet:"chunk_index,snappy"`
	Path       string `parquet:"path,snappy"`
	SizeBytes  int64  `parquet:"size_bytes,snappy"`
	Package    string `parquet:"package,snappy,dict"`
	Category   string `parquet:"category,snappy,dict"`
	Structural bool   `parquet:"structural,snappy"`
}

// WriteRows writes rows to w using the schema inferred from T.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return WriteRows(file, rows)
}

// WriteRunsParquet writes run rows to a Parquet file.
func WriteRunsParquet(data []RunRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// WritePackageRowsParquet writes package rows to a Parquet file.
func WritePackageRowsParquet(data []PackageRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertRunRecords converts stored run records for Parquet export.
func ConvertRunRecords(records []schema.HistoryRunRecord) []RunRow {
	result := make([]RunRow, len(records))
	for i, record := range records {
		result[i] = RunRow{
			RunID:           record.RunID,
			BundlePath:      record.BundlePath,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			TotalSize:       record.TotalSize,
			ModuleCount:     record.ModuleCount,
			FirstPartyBytes: record.FirstParty,
			ThirdPartyBytes: record.ThirdParty,
			PlatformBytes:   record.Platform,
			SegmentMode:     record.SegmentMode,
			ConfigParams:    record.ConfigParams,
		}
	}
	return result
}

// ConvertPackageRowRecords converts stored package rows for Parquet export.
func ConvertPackageRowRecords(records []schema.PackageRowRecord) []PackageRow {
	result := make([]PackageRow, len(records))
	for i, record := range records {
		result[i] = PackageRow(record)
	}
	return result
}

// ConvertModules converts module records for Parquet output.
func ConvertModules(modules []schema.ModuleRecord) []ModuleRow {
	result := make([]ModuleRow, len(modules))
	for i, m := range modules {
		result[i] = ModuleRow{
			ID:         int64(m.ID),
			ChunkIndex: int64(m.ChunkIndex),
			Path:       m.Path,
			SizeBytes:  m.SizeBytes,
			Package:    m.Package,
			Category:   string(m.Category),
			Structural: m.Structural,
		}
	}
	return result
}

// ConvertPackages converts package aggregates of a single analysis into rows with run ID 0.
func ConvertPackages(packages []schema.PackageAggregate, duplicates []schema.DuplicatePackageFinding, analysisTime time.Time) []PackageRow {
	return ConvertPackageRowRecords(schema.BuildPackageRows(0, analysisTime, packages, duplicates))
}
