package algo

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/rankeval/schema"
)

// cutoffLength returns how many ranking positions are scored for cutoff n.
// n <= 0 means no cutoff.
func cutoffLength(size, n int) int {
	if n <= 0 {
		return size
	}
	return min(n, size)
}

// discount is the log2(rank+1) discount for the 0-based position idx.
func discount(idx int) float64 {
	return math.Log2(float64(idx + 2))
}

// ComputeDCG computes the discounted cumulative gain of a ranking truncated at n,
// using the averaged gain of each score tie group.
func ComputeDCG(ranking []schema.RankingEntry, grader Grader, n int) (float64, error) {
	gains, err := GroupGains(ranking, grader)
	if err != nil {
		return 0, err
	}

	var dcg float64
	for idx := range cutoffLength(len(ranking), n) {
		dcg += gains[ranking[idx].Score] / discount(idx)
	}
	return dcg, nil
}

// ComputeNDCG normalizes the DCG of a ranking by the ideal DCG.
// A zero or non-finite ideal DCG yields NaN and ErrDegenerateRanking.
func ComputeNDCG(ranking []schema.RankingEntry, grader Grader, idealDCG float64, n int) (float64, error) {
	if idealDCG == 0 || math.IsNaN(idealDCG) || math.IsInf(idealDCG, 0) {
		return math.NaN(), schema.ErrDegenerateRanking
	}
	dcg, err := ComputeDCG(ranking, grader, n)
	if err != nil {
		return 0, err
	}
	return dcg / idealDCG, nil
}

// IdealRanking flattens a relevance table into the best possible ranking:
// every (source, target) pair ordered by grade, highest first. The grade text is
// used as the score, so equal grades form one tie group.
func IdealRanking(table schema.RelevanceTable) ([]schema.RankingEntry, error) {
	type graded struct {
		entry schema.RankingEntry
		grade int
	}

	items := make([]graded, 0, table.Len())
	for _, source := range sortedKeys(table) {
		for _, target := range sortedKeys(table[source]) {
			grade, err := table.Grade(source, target)
			if err != nil {
				return nil, err
			}
			items = append(items, graded{
				entry: schema.RankingEntry{Source: source, Target: target, Score: strconv.Itoa(grade)},
				grade: grade,
			})
		}
	}

	slices.SortStableFunc(items, func(a, b graded) int {
		return cmp.Compare(b.grade, a.grade)
	})

	ranking := make([]schema.RankingEntry, len(items))
	for i, item := range items {
		ranking[i] = item.entry
	}
	return ranking, nil
}

// IdealDCGs computes the ideal DCG of a relevance table once per cutoff.
func IdealDCGs(table schema.RelevanceTable, cutoffs []int) (map[int]float64, error) {
	ideal, err := IdealRanking(table)
	if err != nil {
		return nil, err
	}
	result := make(map[int]float64, len(cutoffs))
	for _, n := range cutoffs {
		if _, ok := result[n]; ok {
			continue
		}
		dcg, err := ComputeDCG(ideal, table, n)
		if err != nil {
			return nil, err
		}
		result[n] = dcg
	}
	return result, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)
	return keys
}
