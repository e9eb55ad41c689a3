//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateWritesDefaultCSV(t *testing.T) {
	ws := newWorkspace(t)

	output, err := runRankeval(t, ws.root, nil,
		"evaluate", ws.relevanceDir, "--candidate-root", ws.candidateRoot, "--cutoffs", "2", "--workers", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "2 total, 1 succeeded, 1 failed")

	data, err := os.ReadFile(filepath.Join(ws.root, "results_ndcg.csv"))
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"scenario,variant,n,penalty,weight,strategy,ndcg",
		"alpha,base,2,5,w1,exact,1.000000",
		"alpha,base,2,5,w1,tied,0.898354",
		"",
	}, "\n"), string(data))
}

func TestEvaluateFailOnError(t *testing.T) {
	ws := newWorkspace(t)

	_, err := runRankeval(t, ws.root, nil,
		"evaluate", ws.relevanceDir, "--candidate-root", ws.candidateRoot, "--output-file", "-", "--fail-on-error")
	assert.Error(t, err)
}

func TestEvaluateMissingRelevanceDir(t *testing.T) {
	dir := t.TempDir()
	output, err := runRankeval(t, dir, nil, "evaluate", filepath.Join(dir, "missing"))
	assert.Error(t, err)
	assert.Contains(t, output, "relevance-dir")
}

func TestScoreJSON(t *testing.T) {
	ws := newWorkspace(t)
	ranking := filepath.Join(ws.candidateRoot, "alpha", "alpha_base_w1_pen5.txt")

	output, err := runRankevalStdout(t, ws.root,
		"score", filepath.Join(ws.relevanceDir, "alpha_base.csv"), ranking, "--cutoffs", "2", "--output", "json")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "tied", records[1]["strategy"])
	assert.InDelta(t, 0.898354, records[1]["ndcg"], 1e-6)
}

func TestInspectReportsDroppedList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ranking.txt")
	require.NoError(t, os.WriteFile(path, []byte(rankingText+"strategy: open\nA,B,1\n"), 0o644))

	output, err := runRankevalStdout(t, dir, "inspect", path, "--output", "json")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	require.Len(t, results, 1)
	assert.Equal(t, []any{"open"}, results[0]["dropped"])
}

func TestResultsWithSQLite(t *testing.T) {
	ws := newWorkspace(t)
	dbPath := filepath.Join(ws.root, "results.db")
	env := []string{"RANKEVAL_RESULTS_BACKEND=sqlite", "RANKEVAL_RESULTS_DB_CONNECT=" + dbPath}

	_, err := runRankeval(t, ws.root, env, "results", "migrate")
	require.NoError(t, err)

	_, err = runRankeval(t, ws.root, env,
		"evaluate", ws.relevanceDir, "--candidate-root", ws.candidateRoot, "--output-file", "-")
	require.NoError(t, err)

	output, err := runRankeval(t, ws.root, env, "results", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Total Runs: 1")
	assert.Contains(t, output, "Total Rows Written: 8")

	prefix := filepath.Join(ws.root, "history")
	_, err = runRankeval(t, ws.root, env, "results", "export", "--output-file", prefix)
	require.NoError(t, err)
	assert.FileExists(t, prefix+".runs.parquet")
	assert.FileExists(t, prefix+".results.parquet")

	_, err = runRankeval(t, ws.root, env, "results", "clear")
	require.NoError(t, err)
	assert.NoFileExists(t, dbPath)
}
