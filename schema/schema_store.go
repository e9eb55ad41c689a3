package schema

import "time"

// RunRecord represents a row from the rankeval_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	PairsTotal    int32
	PairsFailed   int32
	RowsWritten   int32
	ConfigParams  *string
}

// StoredResultRecord represents a row from the rankeval_results table.
type StoredResultRecord struct {
	RunID         int64
	Scenario      string
	Variant       string
	Cutoff        int32
	Penalty       int32
	Weight        string
	Strategy      string
	NDCG          *float64
	Degenerate    bool
	RelevanceFile string
	RankingFile   string
}
