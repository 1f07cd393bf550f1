// Package iocache persists computed results and uploaded export files.
package iocache

import (
	"sync"

	"github.com/huangsam/reelstats/internal/contract"
)

// CacheStoreManager holds the result cache and the upload store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	results      contract.CacheStore
	uploads      contract.UploadStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetResultStore returns the result CacheStore.
func (mgr *CacheStoreManager) GetResultStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}

// GetUploadStore returns the UploadStore.
func (mgr *CacheStoreManager) GetUploadStore() contract.UploadStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.uploads
}
