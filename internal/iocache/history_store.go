package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/schema"
)

// HistoryStoreImpl records analysis runs and their package rollups.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore migrates the history schema to the latest version and opens the store.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}
	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return nil, fmt.Errorf("unsupported history backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := migrateLatest(backend, connStr); err != nil {
		return nil, err
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(bundlePath string, startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (bundle_path, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, bundlePath, formatTime(startTime, hs.backend), string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (bundle_path, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, bundlePath, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, summary schema.RunSummary) error {
	if hs.disabled() {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_size = %s, module_count = %s,
		first_party_bytes = %s, third_party_bytes = %s, platform_bytes = %s, segment_mode = %s WHERE run_id = %s`,
		quoteTableName(runsTable, hs.backend), hs.bind(1), hs.bind(2), hs.bind(3), hs.bind(4),
		hs.bind(5), hs.bind(6), hs.bind(7), hs.bind(8), hs.bind(9))

	_, err := hs.db.Exec(query,
		formatTime(summary.EndTime, hs.backend),
		summary.Duration.Milliseconds(),
		summary.TotalSize,
		summary.ModuleCount,
		summary.Categories.FirstParty,
		summary.Categories.ThirdParty,
		summary.Categories.PlatformRuntime,
		string(summary.SegmentMode),
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordPackages stores one row per package aggregate in a single transaction.
func (hs *HistoryStoreImpl) RecordPackages(runID int64, analysisTime time.Time, packages []schema.PackageAggregate, duplicates []schema.DuplicatePackageFinding) error {
	if hs.disabled() || len(packages) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, package_name, analysis_time, total_size_bytes, percentage_of_bundle,
		module_count, installed_version, install_locations, estimated_waste) VALUES (%s)`,
		quoteTableName(packageRowsTable, hs.backend), bindVars(hs.backend, 1, 9))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare package insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range schema.BuildPackageRows(runID, analysisTime, packages, duplicates) {
		if _, err := stmt.Exec(
			row.RunID, row.PackageName, formatTime(row.AnalysisTime, hs.backend),
			row.TotalSizeBytes, row.PercentageOfBundle, row.ModuleCount,
			row.InstalledVersion, row.InstallLocations, row.EstimatedWaste,
		); err != nil {
			return fmt.Errorf("failed to insert package row %s: %w", row.PackageName, err)
		}
	}
	return tx.Commit()
}

func (hs *HistoryStoreImpl) bind(i int) string {
	return bindVars(hs.backend, i, 1)
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.disabled() {
		return status, nil
	}

	runs := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest timeScanner
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs)
		if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = last.t

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs)
		if err := hs.db.QueryRow(oldestRunQuery).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest.t
	}

	for _, table := range []string{runsTable, packageRowsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalPackageRow = int(status.TableSizes[packageRowsTable])

	return status, nil
}

// GetAllRuns retrieves every run, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.HistoryRunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, bundle_path, start_time, end_time, run_duration_ms, total_size, module_count,
		first_party_bytes, third_party_bytes, platform_bytes, segment_mode, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryRunRecord
	for rows.Next() {
		var record schema.HistoryRunRecord
		var start, end timeScanner
		var duration sql.NullInt32
		var params sql.NullString
		if err := rows.Scan(&record.RunID, &record.BundlePath, &start, &end, &duration,
			&record.TotalSize, &record.ModuleCount, &record.FirstParty, &record.ThirdParty,
			&record.Platform, &record.SegmentMode, &params); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = start.t
		record.EndTime = end.ptr()
		if duration.Valid {
			d := duration.Int32
			record.RunDurationMs = &d
		}
		if params.Valid {
			p := params.String
			record.ConfigParams = &p
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllPackageRows retrieves every package row ordered by run and package.
func (hs *HistoryStoreImpl) GetAllPackageRows() ([]schema.PackageRowRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, package_name, analysis_time, total_size_bytes, percentage_of_bundle,
		module_count, installed_version, install_locations, estimated_waste
		FROM %s ORDER BY run_id, package_name`, quoteTableName(packageRowsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query package rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PackageRowRecord
	for rows.Next() {
		var record schema.PackageRowRecord
		var analyzed timeScanner
		var version sql.NullString
		if err := rows.Scan(&record.RunID, &record.PackageName, &analyzed, &record.TotalSizeBytes,
			&record.PercentageOfBundle, &record.ModuleCount, &version, &record.InstallLocations,
			&record.EstimatedWaste); err != nil {
			return nil, fmt.Errorf("failed to scan package row: %w", err)
		}
		record.AnalysisTime = analyzed.t
		if version.Valid {
			v := version.String
			record.InstalledVersion = &v
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating package rows: %w", err)
	}
	return results, nil
}
