package algo

import (
	"testing"

	"github.com/huangsam/rankeval/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGrader records how often each pair is graded.
type countingGrader struct {
	table schema.RelevanceTable
	calls map[string]int
}

func (g *countingGrader) Grade(source, target string) (int, error) {
	g.calls[source+"/"+target]++
	return g.table.Grade(source, target)
}

func TestGroupGains(t *testing.T) {
	grader := &countingGrader{
		table: schema.RelevanceTable{"Q": {"a": "3", "b": "1", "c": "2", "d": "0"}},
		calls: map[string]int{},
	}
	ranking := []schema.RankingEntry{
		{Source: "Q", Target: "a", Score: "0.9"},
		{Source: "Q", Target: "b", Score: "0.9"},
		{Source: "Q", Target: "c", Score: "0.5"},
		{Source: "Q", Target: "d", Score: "0.1"},
	}

	gains, err := GroupGains(ranking, grader)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"0.9": 2, "0.5": 2, "0.1": 0}, gains)
	for pair, calls := range grader.calls {
		assert.Equal(t, 1, calls, pair)
	}
}

func TestCountTies(t *testing.T) {
	tests := []struct {
		name     string
		scores   []string
		distinct int
		tied     int
	}{
		{"empty", nil, 0, 0},
		{"all distinct", []string{"1", "2", "3"}, 3, 0},
		{"one tie pair", []string{"1", "1", "2"}, 2, 2},
		{"all tied", []string{"x", "x", "x"}, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranking := make([]schema.RankingEntry, len(tt.scores))
			for i, s := range tt.scores {
				ranking[i] = schema.RankingEntry{Score: s}
			}
			distinct, tied := CountTies(ranking)
			assert.Equal(t, tt.distinct, distinct)
			assert.Equal(t, tt.tied, tied)
		})
	}
}
