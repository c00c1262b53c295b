//go:build !windows

package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IsRunning scans <procRoot>/<pid>/comm for name. Systems without a proc
// filesystem report no running game.
func (g *ProcessGuard) IsRunning(name string) (bool, error) {
	entries, err := os.ReadDir(g.procRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading process table: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(e.Name()); err != nil {
			continue
		}
		// Processes exit while we scan; unreadable entries are skipped.
		comm, err := os.ReadFile(filepath.Join(g.procRoot, e.Name(), "comm"))
		if err != nil {
			continue
		}
		if matchProcess(strings.TrimSpace(string(comm)), name) {
			return true, nil
		}
	}
	return false, nil
}
