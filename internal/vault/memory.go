package vault

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"efswitch/internal/switcher"
)

// MemoryStore is an in-memory implementation of switcher.BackupStore.
// Useful for testing. This implementation is safe for concurrent use.
type MemoryStore struct {
	folders map[string]map[string][]byte // storageKey -> file name -> content
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory backup store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{folders: make(map[string]map[string][]byte)}
}

func (m *MemoryStore) Create(storageKey string) error {
	if err := validElement("storage key", storageKey); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.folders[storageKey]; ok {
		return fmt.Errorf("backup folder already exists: %s", storageKey)
	}
	m.folders[storageKey] = make(map[string][]byte)
	return nil
}

func (m *MemoryStore) Exists(storageKey string) (bool, error) {
	if err := validElement("storage key", storageKey); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.folders[storageKey]
	return ok, nil
}

func (m *MemoryStore) Put(storageKey, name string, r io.Reader) error {
	if err := validFile(storageKey, name); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	folder, ok := m.folders[storageKey]
	if !ok {
		return fmt.Errorf("backup folder not found: %s", storageKey)
	}
	folder[name] = data
	return nil
}

func (m *MemoryStore) Has(storageKey, name string) (bool, error) {
	if err := validFile(storageKey, name); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.folders[storageKey][name]
	return ok, nil
}

func (m *MemoryStore) Get(storageKey, name string, w io.Writer) error {
	if err := validFile(storageKey, name); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.folders[storageKey][name]
	if !ok {
		return fmt.Errorf("backup file not found: %s/%s", storageKey, name)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

func (m *MemoryStore) Remove(storageKey string) error {
	if err := validElement("storage key", storageKey); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.folders, storageKey)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.folders))
	for k := range m.folders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Raw returns the stored bytes of a file, as written by Put.
func (m *MemoryStore) Raw(storageKey, name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.folders[storageKey][name]
	return data, ok
}

func validFile(storageKey, name string) error {
	if err := validElement("storage key", storageKey); err != nil {
		return err
	}
	return validElement("file name", name)
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup() error {
	return nil
}

var _ switcher.BackupStore = (*MemoryStore)(nil)
