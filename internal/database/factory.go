package database

import (
	"fmt"
	"path/filepath"

	"efswitch/internal/config"
	"efswitch/internal/switcher"
)

// JournalFile is the journal's file name under journal.data_dir.
const JournalFile = "journal.db"

// NewJournalFromConfig creates a Journal based on the journal config type.
func NewJournalFromConfig(cfg config.JournalConfig, clock switcher.Clock) (Journal, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite journal")
		}
		return openSQLite(filepath.Join(cfg.DataDir, JournalFile), clock)
	case "memory":
		return openSQLite(":memory:", clock)
	case "none":
		return NopJournal{}, nil
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}

// openSQLite keeps a failed open from returning a typed nil inside the interface.
func openSQLite(path string, clock switcher.Clock) (Journal, error) {
	j, err := NewSQLiteJournal(path, clock)
	if err != nil {
		return nil, err
	}
	return j, nil
}
