// Package schema has models and constants shared by all parts of rankeval.
package schema

import (
	"strconv"
	"strings"
)

// RelevanceTable maps source -> target -> relevance grade as written in the file.
// Grades are kept as text and converted to integers on use.
type RelevanceTable map[string]map[string]string

// Len returns the number of (source, target) pairs in the table.
func (t RelevanceTable) Len() int {
	total := 0
	for _, targets := range t {
		total += len(targets)
	}
	return total
}

// RankingEntry is one line of a strategy's ranked output.
type RankingEntry struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Score  string `json:"score"` // Opaque token; equal tokens are ties
}

// RankingSet holds every committed strategy list of one ranking file.
type RankingSet struct {
	Order []string                  // Strategy names in first-commit order
	Lists map[string][]RankingEntry // Strategy name -> ranked entries, best first
}

// NewRankingSet returns an empty set ready for commits.
func NewRankingSet() *RankingSet {
	return &RankingSet{Lists: make(map[string][]RankingEntry)}
}

// Commit stores a strategy list. Committing an existing name replaces its
// entries but keeps its original position.
func (rs *RankingSet) Commit(name string, entries []RankingEntry) {
	if _, ok := rs.Lists[name]; !ok {
		rs.Order = append(rs.Order, name)
	}
	rs.Lists[name] = entries
}

// Len returns the number of committed strategies.
func (rs *RankingSet) Len() int {
	return len(rs.Order)
}

// CandidateMeta is the metadata encoded in a ranking file name.
type CandidateMeta struct {
	Scenario      string `json:"scenario"`
	Variant       string `json:"variant"`
	WeightVariant string `json:"weight"`
	PenaltyWeight int    `json:"penalty"`
}

// EvaluationResult is one report row: the NDCG of one strategy at one cutoff.
type EvaluationResult struct {
	CandidateMeta
	N             int     `json:"n"`
	Strategy      string  `json:"strategy"`
	NDCG          float64 `json:"-"` // NaN when Degenerate
	Degenerate    bool    `json:"degenerate"`
	RelevanceFile string  `json:"relevance_file"`
	RankingFile   string  `json:"ranking_file"`
}

// Grade returns the integer relevance grade of (source, target).
func (t RelevanceTable) Grade(source, target string) (int, error) {
	raw, ok := t[source][target]
	if !ok {
		return 0, &LookupError{Source: source, Target: target}
	}
	grade, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || grade < 0 {
		return 0, &GradeError{Source: source, Target: target, Value: raw}
	}
	return grade, nil
}
