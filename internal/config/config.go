package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for efswitch.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	LogLevel   string           `toml:"log_level"` // debug, info, warn or error
	Game       GameConfig       `toml:"game"`
	Index      IndexConfig      `toml:"index"`
	Backups    BackupConfig     `toml:"backups"`
	Encryption EncryptionConfig `toml:"encryption"`
	Journal    JournalConfig    `toml:"journal"`
}

// GameConfig describes the installed game.
type GameConfig struct {
	ProcessName string   `toml:"process_name"`           // substring matched against running process names
	ExePath     string   `toml:"exe_path,omitempty"`     // default target of `efswitch launch`
	DataDir     string   `toml:"data_dir,omitempty"`     // live data directory; skips discovery when set
	SearchRoots []string `toml:"search_roots,omitempty"` // parents scanned for the live data directory
}

// IndexConfig represents configuration for the account index.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type IndexConfig struct {
	Type string `toml:"type"`           // "json" or "memory"
	Path string `toml:"path,omitempty"` // only used for type=json
}

// BackupConfig represents configuration for the backup store.
type BackupConfig struct {
	Type string `toml:"type"`           // "filesystem" or "memory"
	Root string `toml:"root,omitempty"` // only used for type=filesystem
}

// EncryptionConfig holds paths to the age key pair used to encrypt backups.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default), "age" or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// JournalConfig represents configuration for the operation journal.
type JournalConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a new Config rooted at baseDir with default values.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Game: GameConfig{
			ProcessName: "endfield.exe",
		},
		Index: IndexConfig{
			Type: "json",
			Path: filepath.Join(baseDir, "accounts.json"),
		},
		Backups: BackupConfig{
			Type: "filesystem",
			Root: filepath.Join(baseDir, "Backups"),
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "efswitch.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "efswitch.key"),
		},
		Journal: JournalConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path. If no file exists there, the defaults for
// baseDir are returned so the tool works before `config init` has been run.
// Fields left empty in the file are filled from the same defaults.
func Load(path, baseDir string) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewConfig(baseDir), nil
		}
		return nil, err
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = baseDir
	}
	cfg.fillDefaults(NewConfig(cfg.BaseDir))
	return cfg, nil
}

// fillDefaults copies every empty field of c from d.
func (c *Config) fillDefaults(d *Config) {
	setIfEmpty := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	setIfEmpty(&c.LogDir, d.LogDir)
	setIfEmpty(&c.LogLevel, d.LogLevel)
	setIfEmpty(&c.Game.ProcessName, d.Game.ProcessName)
	setIfEmpty(&c.Index.Type, d.Index.Type)
	setIfEmpty(&c.Index.Path, d.Index.Path)
	setIfEmpty(&c.Backups.Type, d.Backups.Type)
	setIfEmpty(&c.Backups.Root, d.Backups.Root)
	setIfEmpty(&c.Encryption.Type, d.Encryption.Type)
	setIfEmpty(&c.Encryption.PublicKeyPath, d.Encryption.PublicKeyPath)
	setIfEmpty(&c.Encryption.PrivateKeyPath, d.Encryption.PrivateKeyPath)
	setIfEmpty(&c.Journal.Type, d.Journal.Type)
	setIfEmpty(&c.Journal.DataDir, d.Journal.DataDir)
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
