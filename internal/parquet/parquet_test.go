package parquet

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/rankeval/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []EvaluationRun {
	start := time.Date(2026, 3, 1, 10, 0, 0, 123456789, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := end.Sub(start).Milliseconds()
	params := `{"cutoffs":[3,5,7,10],"workers":4}`
	return []EvaluationRun{
		{RunID: 1, StartTime: start, EndTime: &end, RunDurationMs: &duration, PairsTotal: 12, PairsFailed: 1, RowsWritten: 88, ConfigParams: &params},
		{RunID: 2, StartTime: start.Add(time.Hour)},
	}
}

func sampleResults() []schema.EvaluationResult {
	meta := schema.CandidateMeta{Scenario: "alpha", Variant: "base", WeightVariant: "w1", PenaltyWeight: 5}
	return []schema.EvaluationResult{
		{CandidateMeta: meta, N: 3, Strategy: "bm25", NDCG: 0.8987, RelevanceFile: "rel/alpha_base.csv", RankingFile: "alpha/alpha_base_w1_pen5.txt"},
		{CandidateMeta: meta, N: 5, Strategy: "bm25", NDCG: math.NaN(), Degenerate: true, RelevanceFile: "rel/alpha_base.csv", RankingFile: "alpha/alpha_base_w1_pen5.txt"},
	}
}

func readAll[T any](t *testing.T, r io.ReaderAt) []T {
	t.Helper()
	reader := parquet.NewGenericReader[T](r)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestEvaluationRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(EvaluationRun))
	for _, col := range []string{"run_id", "start_time", "end_time", "run_duration_ms", "pairs_total", "pairs_failed", "rows_written", "config_params"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "Column %s should exist in schema", col)
	}
}

func TestEvaluationRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(EvaluationRow))
	for _, col := range []string{"run_id", "scenario", "variant", "cutoff", "penalty", "weight", "strategy", "ndcg", "degenerate", "relevance_file", "ranking_file"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "Column %s should exist in schema", col)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := sampleRuns()
	require.NoError(t, WriteRunsParquet(data, outputPath))

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got := readAll[EvaluationRun](t, f)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].RunID)
	assert.Equal(t, int32(88), got[0].RowsWritten)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, *data[0].EndTime, *got[0].EndTime, time.Nanosecond)
	require.NotNil(t, got[0].RunDurationMs)
	assert.Equal(t, int64(1500), *got[0].RunDurationMs)
	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].ConfigParams)
}

func TestWriteRowsParquetEmptyAndInvalidPath(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRowsParquet([]EvaluationRow{}, outputPath))
	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")

	assert.Error(t, WriteRowsParquet(nil, "/nonexistent/directory/output.parquet"))
}

func TestRowWriterStreamsRows(t *testing.T) {
	var buf bytes.Buffer
	rw := NewRowWriter(&buf)
	results := sampleResults()
	require.NoError(t, rw.Write(results[:1]))
	require.NoError(t, rw.Write(results[1:]))
	require.NoError(t, rw.Close())

	got := readAll[EvaluationRow](t, bytes.NewReader(buf.Bytes()))
	require.Len(t, got, 2)
	assert.Equal(t, "bm25", got[0].Strategy)
	assert.Equal(t, int32(3), got[0].Cutoff)
	require.NotNil(t, got[0].NDCG)
	assert.InDelta(t, 0.8987, *got[0].NDCG, 1e-12)
	assert.Nil(t, got[1].NDCG)
	assert.True(t, got[1].Degenerate)
}

func TestConvertEvaluationResults(t *testing.T) {
	rows := ConvertEvaluationResults(9, sampleResults())
	require.Len(t, rows, 2)
	assert.Equal(t, int64(9), rows[0].RunID)
	assert.Equal(t, "alpha", rows[0].Scenario)
	assert.Equal(t, "base", rows[0].Variant)
	assert.Equal(t, "w1", rows[0].Weight)
	assert.Equal(t, int32(5), rows[0].Penalty)
	assert.Nil(t, rows[1].NDCG)
}

func TestConvertRecords(t *testing.T) {
	end := time.Now()
	ndcg := 0.5
	runs := ConvertRunRecords([]schema.RunRecord{{RunID: 3, EndTime: &end, PairsTotal: 4}})
	require.Len(t, runs, 1)
	assert.Equal(t, int64(3), runs[0].RunID)
	assert.Equal(t, int32(4), runs[0].PairsTotal)

	results := ConvertStoredResults([]schema.StoredResultRecord{{RunID: 3, Strategy: "s", Cutoff: 10, NDCG: &ndcg}})
	require.Len(t, results, 1)
	assert.Equal(t, int32(10), results[0].Cutoff)
	assert.Equal(t, &ndcg, results[0].NDCG)
}
