package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"efswitch/internal/fingerprint"
	"efswitch/internal/switcher"
)

// OSFilesystemManager is the real filesystem implementation of
// switcher.FilesystemManager. It performs actual filesystem operations on
// the game's live data directory using the os package.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// Exists reports whether a regular file exists at path. Anything else at
// that path (a directory, a symlink, a device) is an error, since the game
// only ever writes plain files there.
func (m *OSFilesystemManager) Exists(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat path: %w", err)
	}
	if err := checkRegular(path, info.Mode()); err != nil {
		return false, err
	}
	return true, nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

// WriteFile replaces the file at path with the content of r using atomic
// write (temp file + rename), so the game never sees a half-written file.
func (m *OSFilesystemManager) WriteFile(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".efswitch-*")
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
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Remove deletes the file at path.
func (m *OSFilesystemManager) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// Fingerprint returns the content fingerprint of the file at path.
func (m *OSFilesystemManager) Fingerprint(path string) (string, error) {
	return fingerprint.File(path)
}

func checkRegular(path string, mode fs.FileMode) error {
	switch {
	case mode.IsRegular():
		return nil
	case mode.IsDir():
		return fmt.Errorf("expected a file, found a directory: %s", path)
	case mode&os.ModeSymlink != 0:
		return fmt.Errorf("symlinks not supported: %s", path)
	default:
		return fmt.Errorf("not a regular file: %s", path)
	}
}

// Compile-time check that OSFilesystemManager implements switcher.FilesystemManager
var _ switcher.FilesystemManager = (*OSFilesystemManager)(nil)
