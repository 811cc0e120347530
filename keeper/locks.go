package keeper

import "sync"

// vaultLocks hands out one mutex per vault id so that at most one writer
// mutates a vault at a time while different vaults proceed independently.
type vaultLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newVaultLocks() *vaultLocks {
	return &vaultLocks{locks: make(map[uint64]*sync.Mutex)}
}

// lock acquires the mutex for id and returns the matching unlock func.
func (l *vaultLocks) lock(id uint64) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
