package iocache

import (
	"bytes"
	"testing"
	"time"

	"github.com/huangsam/rankeval/schema"
	"github.com/stretchr/testify/assert"
)

func TestWriteResultsStatus(t *testing.T) {
	t.Run("disconnected", func(t *testing.T) {
		var buf bytes.Buffer
		writeResultsStatus(&buf, schema.ResultsStatus{Backend: "none"})
		assert.Equal(t, "Results Backend: none\nConnected: false\n", buf.String())
	})

	t.Run("with runs", func(t *testing.T) {
		var buf bytes.Buffer
		when := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
		writeResultsStatus(&buf, schema.ResultsStatus{
			Backend:       "sqlite",
			Connected:     true,
			TotalRuns:     2,
			LastRunID:     2,
			LastRunTime:   when,
			OldestRunTime: when.Add(-time.Hour),
			TotalRows:     12,
			TableSizes:    map[string]int64{resultsTable: 12, runsTable: 2},
		})
		out := buf.String()
		assert.Contains(t, out, "Total Runs: 2")
		assert.Contains(t, out, "Last Run: 2026-03-01 12:30:00")
		assert.Contains(t, out, "Oldest Run: 2026-03-01 11:30:00")
		assert.Contains(t, out, "Total Rows Written: 12")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte(resultsTable)), bytes.Index(buf.Bytes(), []byte(runsTable+":")))
	})
}
