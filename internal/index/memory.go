package index

import (
	"sync"

	"efswitch/internal/switcher"
)

// MemoryIndex keeps the index in memory. Useful for testing.
// This implementation is safe for concurrent use.
type MemoryIndex struct {
	mu      sync.RWMutex
	records []switcher.AccountRecord
	saves   int
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (m *MemoryIndex) Load() ([]switcher.AccountRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]switcher.AccountRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *MemoryIndex) Save(records []switcher.AccountRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make([]switcher.AccountRecord, len(records))
	copy(m.records, records)
	m.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (m *MemoryIndex) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

var _ switcher.IndexStore = (*MemoryIndex)(nil)
