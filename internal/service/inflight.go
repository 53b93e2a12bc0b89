package service

import "sync"

// InFlight tracks the ids that have a mutating command running.
// At most one command per id runs at a time.
type InFlight struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewInFlight creates an empty set
func NewInFlight() *InFlight {
	return &InFlight{ids: make(map[string]struct{})}
}

// Acquire marks id as busy. It returns false if id is already busy.
func (f *InFlight) Acquire(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.ids[id]; busy {
		return false
	}
	f.ids[id] = struct{}{}
	return true
}

// Release frees id
func (f *InFlight) Release(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ids, id)
}

// Busy reports whether id has a command running
func (f *InFlight) Busy(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.ids[id]
	return busy
}
