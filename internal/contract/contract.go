// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/rankeval/schema"
)

// StoreManager defines the interface for managing persistence stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetResultsStore() ResultsStore
}

// ResultsStore defines the interface for tracking evaluation runs and their rows.
type ResultsStore interface {
	// BeginRun creates a new evaluation run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, summary schema.BatchSummary) error

	// RecordResults stores the rows produced for one evaluation pair
	RecordResults(runID int64, rows []schema.EvaluationResult) error

	// GetStatus returns status information about the results store
	GetStatus() (schema.ResultsStatus, error)

	// GetAllRuns returns every stored run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllResults returns every stored row ordered by run
	GetAllResults() ([]schema.StoredResultRecord, error)

	// Close closes the underlying connection
	Close() error
}

// ResultSink receives evaluation rows as they are produced.
// Implementations are not required to be safe for concurrent use.
type ResultSink interface {
	WriteResults(rows []schema.EvaluationResult) error
	Close() error
}
