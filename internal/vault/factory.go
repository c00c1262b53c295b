package vault

import (
	"fmt"

	"efswitch/internal/config"
	"efswitch/internal/switcher"
)

// NewBackupStoreFromConfig creates a BackupStore based on the backups config type.
// Encryption is applied separately by wrapping the result in an EncryptedStore.
func NewBackupStoreFromConfig(cfg config.BackupConfig) (switcher.BackupStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem", "":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem backup store requires root to be set")
		}
		return NewFileSystemStore(cfg.Root)
	default:
		return nil, fmt.Errorf("unknown backup store type: %s", cfg.Type)
	}
}
