package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for result tracking.
const (
	runsTable    = "rankeval_runs"
	resultsTable = "rankeval_results"
)

// resultColumns lists the insert order for rankeval_results.
var resultColumns = []string{
	"run_id", "scenario", "variant", "cutoff", "penalty", "weight",
	"strategy", "ndcg", "degenerate", "relevance_file", "ranking_file",
}

// ResultsStoreImpl implements the ResultsStore interface.
type ResultsStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.ResultsStore = &ResultsStoreImpl{} // Compile-time check

// NewResultsStore creates a new ResultsStore with the specified backend.
func NewResultsStore(backend schema.DatabaseBackend, connStr string) (contract.ResultsStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetResultsDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		dsn, dsnErr := mysqlDSN(connStr, false)
		if dsnErr != nil {
			return nil, dsnErr
		}
		db, err = sql.Open(driverName, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// No-op store for disabled tracking
		return &ResultsStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createResultsTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create results tables: %w", err)
	}

	return &ResultsStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createResultsTables creates the run and row tables.
func createResultsTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{resultsTable, getCreateResultsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for rankeval_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				pairs_total INT,
				pairs_failed INT,
				rows_written INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				pairs_total INT,
				pairs_failed INT,
				rows_written INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				pairs_total INTEGER,
				pairs_failed INTEGER,
				rows_written INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateResultsQuery returns the CREATE TABLE query for rankeval_results.
func getCreateResultsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(resultsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				scenario VARCHAR(255) NOT NULL,
				variant VARCHAR(255) NOT NULL,
				cutoff INT NOT NULL,
				penalty INT NOT NULL,
				weight VARCHAR(255) NOT NULL,
				strategy VARCHAR(191) NOT NULL,
				ndcg DOUBLE,
				degenerate BOOLEAN NOT NULL,
				relevance_file VARCHAR(255) NOT NULL,
				ranking_file VARCHAR(255) NOT NULL,
				PRIMARY KEY (run_id, relevance_file, ranking_file, cutoff, strategy)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				scenario TEXT NOT NULL,
				variant TEXT NOT NULL,
				cutoff INT NOT NULL,
				penalty INT NOT NULL,
				weight TEXT NOT NULL,
				strategy TEXT NOT NULL,
				ndcg DOUBLE PRECISION,
				degenerate BOOLEAN NOT NULL,
				relevance_file TEXT NOT NULL,
				ranking_file TEXT NOT NULL,
				PRIMARY KEY (run_id, relevance_file, ranking_file, cutoff, strategy)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				scenario TEXT NOT NULL,
				variant TEXT NOT NULL,
				cutoff INTEGER NOT NULL,
				penalty INTEGER NOT NULL,
				weight TEXT NOT NULL,
				strategy TEXT NOT NULL,
				ndcg REAL,
				degenerate INTEGER NOT NULL,
				relevance_file TEXT NOT NULL,
				ranking_file TEXT NOT NULL,
				PRIMARY KEY (run_id, relevance_file, ranking_file, cutoff, strategy)
			);
		`, quotedTableName)
	}
}

// mysqlDSN normalizes a MySQL connection string so DATETIME columns scan into time.Time.
// Migrations additionally need multi-statement support.
func mysqlDSN(connStr string, multiStatements bool) (string, error) {
	cfg, err := mysqldriver.ParseDSN(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w. Expected format: user:password@tcp(host:port)/dbname", err)
	}
	cfg.ParseTime = true
	if multiStatements {
		cfg.MultiStatements = true
	}
	return cfg.FormatDSN(), nil
}

// placeholders returns n comma-separated bind parameters for the backend.
func placeholders(n int, backend schema.DatabaseBackend) string {
	parts := make([]string, n)
	for i := range parts {
		if backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// BeginRun creates a new evaluation run and returns its unique ID.
func (rs *ResultsStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert evaluation run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert evaluation run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with its duration and summary counters.
func (rs *ResultsStoreImpl) EndRun(runID int64, endTime time.Time, summary schema.BatchSummary) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName)
	}

	startTime, err := scanTime(rs.db.QueryRow(query, runID), rs.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, pairs_total = $3, pairs_failed = $4, rows_written = $5 WHERE run_id = $6`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, pairs_total = ?, pairs_failed = ?, rows_written = ? WHERE run_id = ?`, quotedTableName)
	}

	args := []any{
		formatTime(endTime, rs.backend), durationMs,
		summary.PairsTotal, summary.PairsFailed, summary.RowsWritten, runID,
	}
	if _, err := rs.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update evaluation run: %w", err)
	}

	return nil
}

// RecordResults stores the NDCG rows of one pair in a single transaction.
func (rs *ResultsStoreImpl) RecordResults(runID int64, rows []schema.EvaluationResult) error {
	if rs.backend == schema.NoneBackend || rs.db == nil || len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(resultsTable, rs.backend),
		strings.Join(resultColumns, ", "),
		placeholders(len(resultColumns), rs.backend))

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		var ndcg any
		if !row.Degenerate && !math.IsNaN(row.NDCG) && !math.IsInf(row.NDCG, 0) {
			ndcg = row.NDCG
		}
		if _, err := stmt.Exec(
			runID, row.Scenario, row.Variant, row.N, row.PenaltyWeight, row.WeightVariant,
			row.Strategy, ndcg, row.Degenerate, row.RelevanceFile, row.RankingFile,
		); err != nil {
			return fmt.Errorf("failed to insert result for %s (n=%d, %s): %w", row.RankingFile, row.N, row.Strategy, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *ResultsStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the results store.
func (rs *ResultsStoreImpl) GetStatus() (schema.ResultsStatus, error) {
	status := schema.ResultsStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = rs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		lastRunTime, err := scanTime(rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)), rs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunTime, err := scanTime(rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)), rs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		row = rs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(rows_written), 0) FROM %s", quotedRuns))
		if err := row.Scan(&status.TotalRows); err != nil {
			return status, fmt.Errorf("failed to get total rows: %w", err)
		}
	}

	for _, table := range []string{runsTable, resultsTable} {
		row = rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend)))
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all evaluation runs from the store.
func (rs *ResultsStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, pairs_total, pairs_failed, rows_written, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord

	for rows.Next() {
		var record schema.RunRecord
		var pairsTotal, pairsFailed, rowsWritten sql.NullInt32

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&pairsTotal, &pairsFailed, &rowsWritten, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan evaluation run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&pairsTotal, &pairsFailed, &rowsWritten, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan evaluation run: %w", err)
			}
		}

		record.PairsTotal = pairsTotal.Int32
		record.PairsFailed = pairsFailed.Int32
		record.RowsWritten = rowsWritten.Int32
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation runs: %w", err)
	}

	return results, nil
}

// GetAllResults retrieves all stored NDCG rows.
func (rs *ResultsStoreImpl) GetAllResults() ([]schema.StoredResultRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY run_id, relevance_file, ranking_file, cutoff, strategy`,
		strings.Join(resultColumns, ", "), quoteTableName(resultsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.StoredResultRecord

	for rows.Next() {
		var record schema.StoredResultRecord
		if err := rows.Scan(&record.RunID, &record.Scenario, &record.Variant, &record.Cutoff,
			&record.Penalty, &record.Weight, &record.Strategy, &record.NDCG, &record.Degenerate,
			&record.RelevanceFile, &record.RankingFile); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

// scanTime reads a single timestamp column, handling SQLite's text storage.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
