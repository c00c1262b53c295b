package vault

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"efswitch/internal/switcher"
)

// FileSystemStore is a filesystem-based implementation of switcher.BackupStore.
// Every account gets one folder named by its storage key:
//
//	<root>/
//	  <storageKey>/
//	    login_cache
//	    login_cache.crc
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a backup store rooted at the given path.
// The root directory is created if it does not exist.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup root: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Root returns the directory holding the account folders.
func (v *FileSystemStore) Root() string {
	return v.root
}

// Create makes the folder for storageKey. It fails if the folder exists.
func (v *FileSystemStore) Create(storageKey string) error {
	dir, err := v.folder(storageKey)
	if err != nil {
		return err
	}
	if err := os.Mkdir(dir, 0700); err != nil {
		return fmt.Errorf("failed to create backup folder: %w", err)
	}
	return nil
}

// Exists reports whether the folder for storageKey exists.
func (v *FileSystemStore) Exists(storageKey string) (bool, error) {
	dir, err := v.folder(storageKey)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat backup folder: %w", err)
	}
	return info.IsDir(), nil
}

// Put writes a file into the folder using atomic write (temp file + rename).
func (v *FileSystemStore) Put(storageKey, name string, r io.Reader) error {
	dest, err := v.file(storageKey, name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(dest)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Has reports whether the folder contains the named file.
func (v *FileSystemStore) Has(storageKey, name string) (bool, error) {
	path, err := v.file(storageKey, name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat backup file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// Get copies the named file to w.
func (v *FileSystemStore) Get(storageKey, name string, w io.Writer) error {
	path, err := v.file(storageKey, name)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("backup file not found: %s/%s", storageKey, name)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}

// Remove deletes the folder and everything in it.
func (v *FileSystemStore) Remove(storageKey string) error {
	dir, err := v.folder(storageKey)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove backup folder: %w", err)
	}
	return nil
}

// Keys lists the folders under the root, sorted. Hidden entries and plain
// files are skipped.
func (v *FileSystemStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(v.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list backup root: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		keys = append(keys, e.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

// ValidateSetup verifies that the backup root is an accessible directory.
func (v *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("backup root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("backup root is not a directory: %s", v.root)
	}
	return nil
}

func (v *FileSystemStore) folder(storageKey string) (string, error) {
	if err := validElement("storage key", storageKey); err != nil {
		return "", err
	}
	return filepath.Join(v.root, storageKey), nil
}

func (v *FileSystemStore) file(storageKey, name string) (string, error) {
	dir, err := v.folder(storageKey)
	if err != nil {
		return "", err
	}
	if err := validElement("file name", name); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// validElement rejects anything that is not a single, non-hidden path element.
func validElement(what, s string) error {
	if s == "" || s == "." || s == ".." || strings.HasPrefix(s, ".") ||
		strings.ContainsAny(s, `/\`) || filepath.Base(s) != s {
		return fmt.Errorf("invalid %s: %q", what, s)
	}
	return nil
}

var _ switcher.BackupStore = (*FileSystemStore)(nil)
