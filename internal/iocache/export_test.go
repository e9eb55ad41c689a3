package iocache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/rankeval/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportResults(t *testing.T) {
	t.Run("requires output file", func(t *testing.T) {
		err := ExportResults(&MockResultsStore{}, "")
		assert.ErrorContains(t, err, "--output-file")
	})

	t.Run("requires a store", func(t *testing.T) {
		err := ExportResults(nil, "out")
		assert.ErrorContains(t, err, "disabled")
	})

	t.Run("no runs", func(t *testing.T) {
		store := &MockResultsStore{}
		store.On("GetStatus").Return(schema.ResultsStatus{Backend: "sqlite", Connected: true}, nil)
		err := ExportResults(store, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "no evaluation runs")
		store.AssertExpectations(t)
	})

	t.Run("status error", func(t *testing.T) {
		store := &MockResultsStore{}
		store.On("GetStatus").Return(schema.ResultsStatus{}, errors.New("boom"))
		err := ExportResults(store, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("sqlite store", func(t *testing.T) {
		store, err := NewResultsStore(schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		runID, err := store.BeginRun(time.Now(), map[string]any{"cutoffs": []int{3, 5}})
		require.NoError(t, err)
		require.NoError(t, store.RecordResults(runID, sampleRows("a.txt")))
		require.NoError(t, store.EndRun(runID, time.Now(), schema.BatchSummary{PairsTotal: 1, RowsWritten: 3}))

		prefix := filepath.Join(t.TempDir(), "export")
		require.NoError(t, ExportResults(store, prefix))

		for _, suffix := range []string{".runs.parquet", ".results.parquet"} {
			info, err := os.Stat(prefix + suffix)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
	})

	t.Run("retrieval error", func(t *testing.T) {
		store := &MockResultsStore{}
		store.On("GetStatus").Return(schema.ResultsStatus{TotalRuns: 1}, nil)
		store.On("GetAllRuns").Return([]schema.RunRecord(nil), errors.New("query failed"))
		err := ExportResults(store, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "query failed")
		store.AssertNotCalled(t, "GetAllResults")
	})
}
