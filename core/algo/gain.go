// Package algo has the tie-aware gain and DCG/NDCG computations.
package algo

import (
	"github.com/huangsam/rankeval/schema"
	"gonum.org/v1/gonum/stat"
)

// Grader resolves the relevance grade of a (source, target) pair.
type Grader interface {
	Grade(source, target string) (int, error)
}

// GroupGains pools the entries of a ranking that share a score and returns the
// mean relevance grade of each pool, keyed by score. The whole ranking is pooled,
// regardless of any cutoff applied later, so that a tie straddling the cutoff
// contributes the same averaged gain on both sides.
// Each entry is graded exactly once.
func GroupGains(ranking []schema.RankingEntry, grader Grader) (map[string]float64, error) {
	grades := make(map[string][]float64)
	for _, entry := range ranking {
		grade, err := grader.Grade(entry.Source, entry.Target)
		if err != nil {
			return nil, err
		}
		grades[entry.Score] = append(grades[entry.Score], float64(grade))
	}

	gains := make(map[string]float64, len(grades))
	for score, values := range grades {
		gains[score] = stat.Mean(values, nil)
	}
	return gains, nil
}

// CountTies returns the number of distinct scores and the number of entries
// that share their score with at least one other entry.
func CountTies(ranking []schema.RankingEntry) (distinct int, tied int) {
	counts := make(map[string]int)
	for _, entry := range ranking {
		counts[entry.Score]++
	}
	for _, c := range counts {
		if c > 1 {
			tied += c
		}
	}
	return len(counts), tied
}
