package schema

import "time"

// ResultsStatus represents the status of the results store.
type ResultsStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRows     int              `json:"total_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
