package iocache

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/rankeval/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows(rankingFile string) []schema.EvaluationResult {
	meta := schema.CandidateMeta{Scenario: "search", Variant: "bm25", WeightVariant: "w1", PenaltyWeight: 5}
	return []schema.EvaluationResult{
		{CandidateMeta: meta, N: 3, Strategy: "exact", NDCG: 0.875, RelevanceFile: "search_rel.csv", RankingFile: rankingFile},
		{CandidateMeta: meta, N: 3, Strategy: "fuzzy", NDCG: math.NaN(), Degenerate: true, RelevanceFile: "search_rel.csv", RankingFile: rankingFile},
		{CandidateMeta: meta, N: 5, Strategy: "exact", NDCG: 0.9, RelevanceFile: "search_rel.csv", RankingFile: rankingFile},
	}
}

func TestResultsStore_NoneBackend(t *testing.T) {
	store, err := NewResultsStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun(time.Now(), map[string]any{"cutoffs": []int{3}})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordResults(1, sampleRows("a.txt")))
	assert.NoError(t, store.EndRun(1, time.Now(), schema.BatchSummary{PairsTotal: 1}))

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	results, err := store.GetAllResults()
	assert.NoError(t, err)
	assert.Nil(t, results)

	assert.NoError(t, store.Close())
}

func TestResultsStore_UnsupportedBackend(t *testing.T) {
	_, err := NewResultsStore("oracle", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestResultsStore_SQLiteRoundTrip(t *testing.T) {
	store, err := NewResultsStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	startTime := time.Now().Add(-2 * time.Second)
	runID, err := store.BeginRun(startTime, map[string]any{"workers": 4})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.RecordResults(runID, sampleRows("cands/search_bm25_w1_pen5.txt")))
	require.NoError(t, store.RecordResults(runID, nil))

	summary := schema.BatchSummary{PairsTotal: 2, PairsSucceeded: 1, PairsFailed: 1, RowsWritten: 3}
	require.NoError(t, store.EndRun(runID, time.Now(), summary))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, int32(2), run.PairsTotal)
	assert.Equal(t, int32(1), run.PairsFailed)
	assert.Equal(t, int32(3), run.RowsWritten)
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.GreaterOrEqual(t, *run.RunDurationMs, int64(2000))
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"workers":4}`, *run.ConfigParams)

	results, err := store.GetAllResults()
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Ordered by relevance file, ranking file, cutoff, then strategy
	assert.Equal(t, int32(3), results[0].Cutoff)
	assert.Equal(t, "exact", results[0].Strategy)
	require.NotNil(t, results[0].NDCG)
	assert.InDelta(t, 0.875, *results[0].NDCG, 1e-12)
	assert.False(t, results[0].Degenerate)

	assert.Equal(t, "fuzzy", results[1].Strategy)
	assert.Nil(t, results[1].NDCG)
	assert.True(t, results[1].Degenerate)

	assert.Equal(t, int32(5), results[2].Cutoff)
	assert.Equal(t, "search", results[2].Scenario)
	assert.Equal(t, "bm25", results[2].Variant)
	assert.Equal(t, "w1", results[2].Weight)
	assert.Equal(t, int32(5), results[2].Penalty)
	assert.Equal(t, "search_rel.csv", results[2].RelevanceFile)
}

func TestResultsStore_DuplicateRowsRollBack(t *testing.T) {
	store, err := NewResultsStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	rows := sampleRows("a.txt")
	rows = append(rows, rows[0])
	err = store.RecordResults(runID, rows)
	assert.Error(t, err)

	results, err := store.GetAllResults()
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestResultsStore_SameRankingFileTwoRelevanceFiles(t *testing.T) {
	store, err := NewResultsStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	// s_10_v_w_pen1.txt starts with both s_1 and s_10, so discovery pairs it twice
	ranking := "s/s_10_v_w_pen1.txt"
	first := sampleRows(ranking)
	second := sampleRows(ranking)
	for i := range first {
		first[i].RelevanceFile = "rel/s_1.csv"
		second[i].RelevanceFile = "rel/s_10.csv"
	}
	require.NoError(t, store.RecordResults(runID, first))
	require.NoError(t, store.RecordResults(runID, second))

	results, err := store.GetAllResults()
	require.NoError(t, err)
	require.Len(t, results, 6)
	assert.Equal(t, "rel/s_1.csv", results[0].RelevanceFile)
	assert.Equal(t, "rel/s_10.csv", results[3].RelevanceFile)
	for _, r := range results {
		assert.Equal(t, ranking, r.RankingFile)
	}
}

func TestResultsStore_GetStatus(t *testing.T) {
	store, err := NewResultsStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[runsTable])

	for i := range 2 {
		runID, err := store.BeginRun(time.Now(), map[string]any{"run": i})
		require.NoError(t, err)
		require.NoError(t, store.RecordResults(runID, sampleRows("a.txt")))
		require.NoError(t, store.EndRun(runID, time.Now(), schema.BatchSummary{PairsTotal: 1, PairsSucceeded: 1, RowsWritten: 3}))
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, int64(2), status.LastRunID)
	assert.Equal(t, 6, status.TotalRows)
	assert.False(t, status.LastRunTime.Before(status.OldestRunTime))
	assert.Equal(t, int64(2), status.TableSizes[runsTable])
	assert.Equal(t, int64(6), status.TableSizes[resultsTable])
}

func TestResultsStore_EndRunUnknownID(t *testing.T) {
	store, err := NewResultsStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	err = store.EndRun(42, time.Now(), schema.BatchSummary{})
	assert.Error(t, err)
}

func TestResultsStore_SQLiteFilePersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")

	store, err := NewResultsStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordResults(runID, sampleRows("a.txt")))
	require.NoError(t, store.Close())

	reopened, err := NewResultsStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	results, err := reopened.GetAllResults()
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(3, schema.SQLiteBackend))
	assert.Equal(t, "?, ?", placeholders(2, schema.MySQLBackend))
	assert.Equal(t, "$1, $2, $3", placeholders(3, schema.PostgreSQLBackend))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"rankeval_runs"`, quoteTableName(runsTable, schema.SQLiteBackend))
	assert.Equal(t, `"rankeval_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
	assert.Equal(t, "`rankeval_runs`", quoteTableName(runsTable, schema.MySQLBackend))
}

func TestGetCreateQueries(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		t.Run(string(backend), func(t *testing.T) {
			runs := getCreateRunsQuery(backend)
			assert.Contains(t, runs, "CREATE TABLE IF NOT EXISTS")
			assert.Contains(t, runs, "rows_written")

			results := getCreateResultsQuery(backend)
			assert.Contains(t, results, "PRIMARY KEY (run_id, relevance_file, ranking_file, cutoff, strategy)")
		})
	}
	assert.Contains(t, getCreateRunsQuery(schema.PostgreSQLBackend), "BIGSERIAL")
	assert.Contains(t, getCreateRunsQuery(schema.MySQLBackend), "AUTO_INCREMENT")
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("user:pass@tcp(localhost:3306)/rankeval", true)
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")

	dsn, err = mysqlDSN("user:pass@tcp(localhost:3306)/rankeval", false)
	require.NoError(t, err)
	assert.NotContains(t, dsn, "multiStatements")

	_, err = mysqlDSN("not a dsn", false)
	assert.Error(t, err)
}
