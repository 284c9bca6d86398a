// internal/services/lock_manager.go
package services

import (
	"sync"
	"time"
)

// LockManager serializes pipeline work per content ID.
type LockManager struct {
	contentLocks  map[string]*lockInfo
	globalLock    sync.RWMutex
	cleanupTicker *time.Ticker
}

type lockInfo struct {
	mutex    *sync.Mutex
	lastUsed time.Time
}

// NewLockManager creates a lock manager with background cleanup of idle locks.
func NewLockManager() *LockManager {
	lm := &LockManager{
		contentLocks: make(map[string]*lockInfo),
	}
	lm.startCleanup()
	return lm
}

// getLock returns the lock for a content ID, creating it on first use.
func (lm *LockManager) getLock(contentID string) *sync.Mutex {
	lm.globalLock.RLock()
	if info, exists := lm.contentLocks[contentID]; exists {
		lm.globalLock.RUnlock()
		info.lastUsed = time.Now()
		return info.mutex
	}
	lm.globalLock.RUnlock()

	lm.globalLock.Lock()
	defer lm.globalLock.Unlock()

	// Double check under the write lock.
	if info, exists := lm.contentLocks[contentID]; exists {
		info.lastUsed = time.Now()
		return info.mutex
	}

	info := &lockInfo{
		mutex:    &sync.Mutex{},
		lastUsed: time.Now(),
	}
	lm.contentLocks[contentID] = info
	return info.mutex
}

// ExecuteWithContentLock runs fn while holding the content item's lock. Two
// pipeline runs for the same ID never interleave; runs for different IDs
// proceed in parallel.
func (lm *LockManager) ExecuteWithContentLock(contentID string, fn func() error) error {
	lock := lm.getLock(contentID)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

func (lm *LockManager) startCleanup() {
	lm.cleanupTicker = time.NewTicker(5 * time.Minute)
	go func() {
		for range lm.cleanupTicker.C {
			lm.cleanupUnusedLocks()
		}
	}()
}

func (lm *LockManager) cleanupUnusedLocks() {
	lm.globalLock.Lock()
	defer lm.globalLock.Unlock()

	const maxLocks = 200
	const lockTimeout = 30 * time.Minute

	if len(lm.contentLocks) <= maxLocks {
		return
	}
	now := time.Now()
	for contentID, info := range lm.contentLocks {
		if now.Sub(info.lastUsed) > lockTimeout {
			delete(lm.contentLocks, contentID)
		}
	}
}
