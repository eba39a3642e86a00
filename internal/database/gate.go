package database

import "sync"

// Gate serializes access to the single-writer storage port. Mutating
// operations take the exclusive lock; read queries share the read lock, so
// reads may overlap each other but never an in-flight write. Every repository
// and the scheduler must route storage access through one shared Gate.
type Gate struct {
	mu sync.RWMutex
}

// NewGate creates a Gate.
func NewGate() *Gate {
	return &Gate{}
}

// Read runs fn under the shared read lock.
func (g *Gate) Read(fn func() error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn()
}

// Write runs fn under the exclusive write lock.
func (g *Gate) Write(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
