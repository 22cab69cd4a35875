package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/internal/parquet"
)

// ExecuteHistoryExport writes the run history to <outputFile>.runs.parquet
// and <outputFile>.package_rows.parquet.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total package rows: %d\n", status.TableSizes[packageRowsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	packageRows, err := store.GetAllPackageRows()
	if err != nil {
		return fmt.Errorf("failed to retrieve package rows: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	parquetPackageRows := parquet.ConvertPackageRowRecords(packageRows)
	packageRowsFile := outputFile + ".package_rows.parquet"
	if err := parquet.WritePackageRowsParquet(parquetPackageRows, packageRowsFile); err != nil {
		return fmt.Errorf("failed to write package rows: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d package rows to: %s\n", len(parquetPackageRows), packageRowsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be loaded with DuckDB or Pandas (via pyarrow).")
	return nil
}
