// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/bundlescope/schema"
)

// CacheManager defines the interface for managing stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for analysis result caching.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking analysis runs and their package rollups.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(bundlePath string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, summary schema.RunSummary) error

	// RecordPackages stores one row per package aggregate
	RecordPackages(runID int64, analysisTime time.Time, packages []schema.PackageAggregate, duplicates []schema.DuplicatePackageFinding) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves every recorded run, oldest first
	GetAllRuns() ([]schema.HistoryRunRecord, error)

	// GetAllPackageRows retrieves every recorded package row
	GetAllPackageRows() ([]schema.PackageRowRecord, error)

	// Close closes the underlying connection
	Close() error
}
