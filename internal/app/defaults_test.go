package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/custom/config.toml")
		t.Setenv(EnvHome, "/custom/efswitch")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/efswitch" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/efswitch")
		}
		if want := filepath.Join("/custom/efswitch", "log"); defaults["log_dir"] != want {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], want)
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvHome, "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "efswitch.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "efswitch")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}
	})
}
