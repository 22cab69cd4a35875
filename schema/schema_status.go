package schema

import "time"

// CacheStatus represents the status of the result cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the analysis history store.
type HistoryStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TotalRuns       int              `json:"total_runs"`
	LastRunID       int64            `json:"last_run_id"`
	LastRunTime     time.Time        `json:"last_run_time"`
	OldestRunTime   time.Time        `json:"oldest_run_time"`
	TotalPackageRow int              `json:"total_package_rows"`
	TableSizes      map[string]int64 `json:"table_sizes"`
}

// PackageRowRecord represents a row from the bundlescope_package_rows table.
type PackageRowRecord struct {
	RunID              int64
	PackageName        string
	AnalysisTime       time.Time
	TotalSizeBytes     int64
	PercentageOfBundle float64
	ModuleCount        int32
	InstalledVersion   *string
	InstallLocations   int32
	EstimatedWaste     float64
}
