package schema

// EvaluationPair binds one relevance file to one candidate ranking file.
type EvaluationPair struct {
	RelevanceFile string `json:"relevance_file"`
	RankingFile   string `json:"ranking_file"`
	Scenario      string `json:"scenario"`
}

// PairFailure records why a pair produced no rows.
type PairFailure struct {
	EvaluationPair
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// BatchSummary reports the outcome of an evaluation run.
type BatchSummary struct {
	PairsTotal     int           `json:"pairs_total"`
	PairsSucceeded int           `json:"pairs_succeeded"`
	PairsFailed    int           `json:"pairs_failed"`
	RowsWritten    int           `json:"rows_written"`
	DegenerateRows int           `json:"degenerate_rows"`
	DroppedLists   int           `json:"dropped_lists"`
	Failures       []PairFailure `json:"failures,omitempty"`
}
