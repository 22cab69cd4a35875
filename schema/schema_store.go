package schema

import "time"

// HistoryRunRecord represents a row from the bundlescope_runs table.
type HistoryRunRecord struct {
	RunID         int64
	BundlePath    string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalSize     int64
	ModuleCount   int32
	FirstParty    int64
	ThirdParty    int64
	Platform      int64
	SegmentMode   string
	ConfigParams  *string
}

// RunSummary is what the history store needs to close a run.
type RunSummary struct {
	EndTime     time.Time
	Duration    time.Duration
	TotalSize   int64
	ModuleCount int
	Categories  CategoryTotals
	SegmentMode SegmentMode
}

// Summarize builds a RunSummary from an analysis result.
func Summarize(result BundleAnalysisResult, start, end time.Time) RunSummary {
	return RunSummary{
		EndTime:     end,
		Duration:    end.Sub(start),
		TotalSize:   result.TotalSize,
		ModuleCount: len(result.Modules),
		Categories:  result.Categories,
		SegmentMode: result.SegmentMode,
	}
}

// BuildPackageRows flattens package aggregates into history rows for one run.
// Duplicate findings contribute their location count and estimated waste.
func BuildPackageRows(runID int64, analysisTime time.Time, packages []PackageAggregate, duplicates []DuplicatePackageFinding) []PackageRowRecord {
	dups := make(map[string]DuplicatePackageFinding, len(duplicates))
	for _, d := range duplicates {
		dups[d.Name] = d
	}
	rows := make([]PackageRowRecord, len(packages))
	for i, p := range packages {
		row := PackageRowRecord{
			RunID:              runID,
			PackageName:        p.Name,
			AnalysisTime:       analysisTime,
			TotalSizeBytes:     p.TotalSizeBytes,
			PercentageOfBundle: p.PercentageOfBundle,
			ModuleCount:        int32(len(p.MemberModules)),
			InstallLocations:   1,
		}
		if p.InstalledVersion != "" {
			v := p.InstalledVersion
			row.InstalledVersion = &v
		}
		if d, ok := dups[p.Name]; ok {
			row.InstallLocations = int32(len(d.InstallLocations))
			row.EstimatedWaste = d.EstimatedWastedBytes
		}
		rows[i] = row
	}
	return rows
}
