// Package concurrency provides named in-process locks. The treasury uses
// them to serialize outflows per (player, mint): the database row lock only
// guards the final ledger delta, while a named lock closes the window
// between the pre-chain balance check and the chain call.
package concurrency

import (
	"sync"
)

// LockManager hands out mutexes keyed by name. Locks stay in the map once
// created; the key space is bounded by the active player set.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key, creating it on first use.
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
