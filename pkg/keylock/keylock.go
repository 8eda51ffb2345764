// Package keylock provides mutexes addressed by key. The ledger uses one to
// serialize the sufficiency-check-then-append sequence per debited user.
package keylock

import "sync"

// Keyed hands out one mutex per key. Mutexes are created on first use and
// retained for the process lifetime; the key space is bounded by the number
// of users, so no eviction is needed.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns the matching unlock function.
func (k *Keyed) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
