// Package iocache persists evaluation runs and their NDCG rows.
package iocache

import (
	"sync"

	"github.com/huangsam/rankeval/internal/contract"
)

// ResultsStoreManager manages the ResultsStore instance.
type ResultsStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	results      contract.ResultsStore
}

var _ contract.StoreManager = &ResultsStoreManager{} // Compile-time check

// GetResultsStore returns the ResultsStore, or nil when tracking is disabled.
func (mgr *ResultsStoreManager) GetResultsStore() contract.ResultsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}
