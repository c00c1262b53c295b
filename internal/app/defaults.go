package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables consulted by GetDefaults and the passphrase source.
const (
	EnvConfigPath = "EFSWITCH_CONFIG_PATH"
	EnvHome       = "EFSWITCH_HOME"
	EnvPassphrase = "EFSWITCH_PASSPHRASE"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - EFSWITCH_CONFIG_PATH: config file location (default: ~/.config/efswitch.toml)
//   - EFSWITCH_HOME: base directory for efswitch data (default: ~/.local/share/efswitch)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

func getConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "efswitch.toml"), nil
}

// getBaseDir returns the base directory for efswitch data, checking
// EFSWITCH_HOME first, then falling back to ~/.local/share/efswitch.
func getBaseDir() (string, error) {
	if path := os.Getenv(EnvHome); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "efswitch"), nil
}
