package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/internal/iocache"
	"github.com/huangsam/rankeval/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resultsBackendFromConfig reads and validates the results backend settings.
// An empty backend is treated as NoneBackend.
func resultsBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("results-backend")))
	connStr := viper.GetString("results-db-connect")
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", &schema.ConfigError{Field: "results-backend", Msg: fmt.Sprintf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", backend)}
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// resultsSetup loads the minimal configuration needed for results operations
// and opens the store.
func resultsSetup(cmd *cobra.Command, _ []string) error {
	backend, connStr, err := resultsBackendFromConfig()
	if err != nil {
		return err
	}

	if err := iocache.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize results store: %w", err)
	}

	cfg.ResultsBackend = backend
	cfg.ResultsDBConnect = connStr
	// Export only writes where it is explicitly told to
	if cmd.Flags().Changed("output-file") || viper.InConfig("output-file") {
		cfg.OutputFile = viper.GetString("output-file")
	}
	return nil
}

// resultsMigrateSetup loads configuration for migrations without opening the
// store, so migrations can run on a fresh database.
func resultsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := resultsBackendFromConfig()
	if err != nil {
		return err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetResultsDBFilePath()
	}

	cfg.ResultsBackend = backend
	cfg.ResultsDBConnect = connStr
	return nil
}

// sqliteResultsPath returns the SQLite file a results command acts on.
func sqliteResultsPath() string {
	if cfg.ResultsBackend == schema.SQLiteBackend && cfg.ResultsDBConnect != "" {
		return cfg.ResultsDBConnect
	}
	return contract.GetResultsDBFilePath()
}

// resultsCmd focused on stored evaluation runs.
//
// Note: results subcommands use minimal initialization (resultsSetup) instead of
// the full sharedSetup used by evaluation commands.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage stored evaluation runs and exports",
	Long: `Manage the evaluation runs recorded with --results-backend.

Each tracked run stores:
- Run metadata (timestamps, configuration, duration, pair counts)
- Every NDCG row (scenario, variant, weight, penalty, cutoff, strategy)

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show results store statistics
  export  - Export runs and rows to Parquet
  clear   - Remove all stored runs
  migrate - Run database schema migrations

Examples:
  rankeval results status --results-backend sqlite
  rankeval results export --results-backend sqlite --output-file ndcg-history`,
}

// resultsClearCmd clears the stored runs.
var resultsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored evaluation runs",
	Long: `Delete all stored runs and NDCG rows.

For SQLite this removes the database file; for MySQL and PostgreSQL it drops
the rankeval tables.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: resultsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearResults(cfg.ResultsBackend, sqliteResultsPath(), cfg.ResultsDBConnect); err != nil {
			contract.LogFatal("Failed to clear results", err)
		}
		fmt.Println("Results cleared successfully.")
	},
}

// resultsStatusCmd shows results store status.
var resultsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display results store statistics and connection details",
	Long: `Show the backend, connection state, number of stored runs, last and oldest
run times, total rows written and table sizes.`,
	PreRunE: resultsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetResultsStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get results status", err)
		}
		iocache.PrintResultsStatus(status)
	},
}

// resultsExportCmd exports stored runs to Parquet files.
var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored runs and NDCG rows to Parquet",
	Long: `Export all stored evaluation data to two Parquet files:
- <output-file>.runs.parquet - one row per evaluation run
- <output-file>.results.parquet - one row per NDCG value

Requires: --output-file parameter

Examples:
  rankeval results export --results-backend sqlite --output-file history
  duckdb -c "SELECT strategy, avg(ndcg) FROM read_parquet('history.results.parquet') GROUP BY 1"`,
	PreRunE: resultsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteResultsExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export results", err)
		}
	},
}

// resultsMigrateCmd runs database migrations for the results store.
var resultsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the results store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  rankeval results migrate --results-backend sqlite

  # Rollback to the initial state
  rankeval results migrate --results-backend sqlite --target-version 0`,
	PreRunE: resultsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateResults(cfg.ResultsBackend, cfg.ResultsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
