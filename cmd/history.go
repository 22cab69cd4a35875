package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/internal/iocache"
	"github.com/huangsam/bundlescope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// Stores are not opened here so migrate can run against a fresh database.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}

	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// openHistoryStore initializes the global manager with only the history store.
func openHistoryStore() contract.HistoryStore {
	if err := iocache.InitStores("", "", cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		contract.LogFatal("Failed to initialize history store", err)
	}
	return iocache.Manager.GetHistoryStore()
}

// historySQLitePath is the file removed by history clear.
func historySQLitePath() string {
	if cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return iocache.GetHistoryDBFilePath()
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded analysis runs and exports",
	Long: `Manage the history of analysis runs used for tracking bundle growth.

When --history-backend is set, bundlescope records every run:
- Run metadata (bundle path, timestamps, duration, configuration)
- Category totals and the segmentation mode used
- One row per package with its size, share, version and duplicate waste

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics
  export  - Export runs and package rows to Parquet
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite file
  bundlescope analyze main.jsbundle --history-backend sqlite

  # Export for analysis in DuckDB
  bundlescope history export --history-backend sqlite --output-file bundle-history`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded analysis runs",
	Long: `Delete all recorded runs and package rows.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  bundlescope history export --history-backend sqlite --output-file backup
  bundlescope history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, historySQLitePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about recorded analysis runs.

Displays:
- Backend type and connection status
- Total number of runs and package rows
- Last and oldest run timestamps
- Row counts per table

Examples:
  bundlescope history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := openHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all recorded runs to Parquet.

Writes two files next to --output-file:
- <output-file>.runs.parquet - one row per analysis run
- <output-file>.package_rows.parquet - one row per package per run

Requires: --output-file parameter

Examples:
  bundlescope history export --history-backend sqlite --output-file bundle-history
  duckdb -c "SELECT * FROM read_parquet('bundle-history.package_rows.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, openHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  bundlescope history migrate --history-backend sqlite

  # Migrate to specific version
  bundlescope history migrate --history-backend sqlite --target-version 2

  # Rollback everything
  bundlescope history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.HistoryBackend == schema.NoneBackend {
			contract.LogFatal("Failed to run migrations", fmt.Errorf("no history backend configured"))
		}
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
