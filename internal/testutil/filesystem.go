package testutil

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"efswitch/internal/fingerprint"
	"efswitch/internal/switcher"
)

// MockFilesystemManager is an in-memory live directory for testing.
// Paths are used verbatim as map keys. Safe for concurrent use.
type MockFilesystemManager struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes int
	fail   map[string]error // "<op> <path>" -> error
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files: make(map[string][]byte),
		fail:  make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem. It does not count as a write.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), content...)
}

// File returns the content stored at path.
func (m *MockFilesystemManager) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	return append([]byte(nil), data...), ok
}

// Paths returns every stored path, sorted.
func (m *MockFilesystemManager) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Writes returns how many WriteFile and Remove calls succeeded.
func (m *MockFilesystemManager) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailOn makes op ("open", "write" or "remove") on path return err.
func (m *MockFilesystemManager) FailOn(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op+" "+path] = err
}

func (m *MockFilesystemManager) injected(op, path string) error {
	return m.fail[op+" "+path]
}

func (m *MockFilesystemManager) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("open", path); err != nil {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), data...))), nil
}

func (m *MockFilesystemManager) WriteFile(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("write", path); err != nil {
		return err
	}
	m.files[path] = data
	m.writes++
	return nil
}

func (m *MockFilesystemManager) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("remove", path); err != nil {
		return err
	}
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(m.files, path)
	m.writes++
	return nil
}

func (m *MockFilesystemManager) Fingerprint(path string) (string, error) {
	m.mu.Lock()
	data, ok := m.files[path]
	m.mu.Unlock()
	if !ok {
		return fingerprint.Empty, nil
	}
	return fingerprint.Sum(bytes.NewReader(data))
}

var _ switcher.FilesystemManager = (*MockFilesystemManager)(nil)
