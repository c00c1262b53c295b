// Package platform locates the game on the local machine and talks to the
// operating system on behalf of the switcher.
package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"efswitch/internal/config"
	"efswitch/internal/switcher"
)

// SDKDirPrefix is the name prefix of the game's per-SDK data directories.
const SDKDirPrefix = "sdk"

// DefaultSearchRoots returns the directories the game writes its data under:
// %USERPROFILE%\AppData\Local\Hypergryph\Endfield and the LocalLow twin.
func DefaultSearchRoots() []string {
	home := os.Getenv("USERPROFILE")
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return nil
		}
	}
	var roots []string
	for _, appData := range []string{"Local", "LocalLow"} {
		roots = append(roots, filepath.Join(home, "AppData", appData, "Hypergryph", "Endfield"))
	}
	return roots
}

// Resolver finds the game's live data directory.
type Resolver struct {
	dataDir string
	roots   []string
}

// NewResolver creates a resolver from the game config. A configured data_dir
// bypasses discovery; otherwise search_roots (or DefaultSearchRoots) are
// scanned.
func NewResolver(cfg config.GameConfig) *Resolver {
	roots := cfg.SearchRoots
	if len(roots) == 0 {
		roots = DefaultSearchRoots()
	}
	return &Resolver{dataDir: cfg.DataDir, roots: roots}
}

// Resolve returns the live data directory: the first subdirectory, in name
// order, of the first search root that starts with "sdk" and has an entry
// named like the primary credential file.
func (r *Resolver) Resolve() (string, error) {
	const op = "resolve"

	if r.dataDir != "" {
		info, err := os.Stat(r.dataDir)
		if err != nil || !info.IsDir() {
			return "", switcher.NotFound(op, r.dataDir, "configured data directory does not exist")
		}
		return r.dataDir, nil
	}

	// An unreadable root is skipped; it only becomes the error when no
	// root could be read at all.
	var firstErr error
	failed := 0
	for _, root := range r.roots {
		dir, err := scanRoot(root)
		if err != nil {
			if firstErr == nil {
				firstErr = switcher.IOFailure(op, root, err)
			}
			failed++
			continue
		}
		if dir != "" {
			return dir, nil
		}
	}
	if failed > 0 && failed == len(r.roots) {
		return "", firstErr
	}

	return "", switcher.NotFound(op, strings.Join(r.roots, string(os.PathListSeparator)),
		"game data directory not found; start the game and log in once, or set game.data_dir")
}

// scanRoot returns the matching data directory under root, or "" if none.
func scanRoot(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading search root: %w", err)
	}

	// os.ReadDir already sorts by name; keep the order explicit.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), SDKDirPrefix) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, switcher.PrimaryFile)); err == nil {
			return dir, nil
		}
	}
	return "", nil
}

var _ switcher.DirResolver = (*Resolver)(nil)
