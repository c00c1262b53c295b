package testutil

import (
	"efswitch/internal/index"
	"efswitch/internal/vault"
)

// NewTestBackupStore creates a new in-memory backup store for testing.
func NewTestBackupStore() *vault.MemoryStore {
	return vault.NewMemoryStore()
}

// NewTestIndex creates a new in-memory account index for testing.
func NewTestIndex() *index.MemoryIndex {
	return index.NewMemoryIndex()
}
