package index

import (
	"fmt"

	"efswitch/internal/config"
	"efswitch/internal/switcher"
)

// NewIndexFromConfig creates an IndexStore based on the index config type.
func NewIndexFromConfig(cfg config.IndexConfig) (switcher.IndexStore, error) {
	switch cfg.Type {
	case "json", "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("json index requires path to be set")
		}
		return NewJSONIndex(cfg.Path), nil
	case "memory":
		return NewMemoryIndex(), nil
	default:
		return nil, fmt.Errorf("unknown index type: %s", cfg.Type)
	}
}
