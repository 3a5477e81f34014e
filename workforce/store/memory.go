// Package store provides population Source/Sink implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/workforce-ledger/workforce"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu  sync.RWMutex
	pop workforce.Population
}

// NewMemory returns a store holding a copy of pop.
func NewMemory(pop workforce.Population) *Memory {
	return &Memory{pop: pop.Clone()}
}

// Load returns a copy of the stored population.
func (m *Memory) Load(_ context.Context) (workforce.Population, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pop.Clone(), nil
}

// Save replaces the stored population with a copy of pop.
func (m *Memory) Save(_ context.Context, pop workforce.Population) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pop = pop.Clone()
	return nil
}

var (
	_ workforce.Source = (*Memory)(nil)
	_ workforce.Sink   = (*Memory)(nil)
)
