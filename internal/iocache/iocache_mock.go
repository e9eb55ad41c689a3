package iocache

import (
	"time"

	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetResultsStore implements the StoreManager interface.
func (m *MockStoreManager) GetResultsStore() contract.ResultsStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ResultsStore)
	return store
}

// MockResultsStore is a mock implementation of ResultsStore for testing.
type MockResultsStore struct {
	mock.Mock
}

var _ contract.ResultsStore = &MockResultsStore{} // Compile-time check

// BeginRun implements the ResultsStore interface.
func (m *MockResultsStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the ResultsStore interface.
func (m *MockResultsStore) EndRun(runID int64, endTime time.Time, summary schema.BatchSummary) error {
	args := m.Called(runID, endTime, summary)
	return args.Error(0)
}

// RecordResults implements the ResultsStore interface.
func (m *MockResultsStore) RecordResults(runID int64, rows []schema.EvaluationResult) error {
	args := m.Called(runID, rows)
	return args.Error(0)
}

// GetStatus implements the ResultsStore interface.
func (m *MockResultsStore) GetStatus() (schema.ResultsStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ResultsStatus), args.Error(1)
}

// GetAllRuns implements the ResultsStore interface.
func (m *MockResultsStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllResults implements the ResultsStore interface.
func (m *MockResultsStore) GetAllResults() ([]schema.StoredResultRecord, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.StoredResultRecord)
	return rows, args.Error(1)
}

// Close implements the ResultsStore interface.
func (m *MockResultsStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
