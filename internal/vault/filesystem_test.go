package vault

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"efswitch/internal/switcher"
)

// storeContract exercises the behaviour every BackupStore must share.
func storeContract(t *testing.T, newStore func(t *testing.T) switcher.BackupStore) {
	t.Run("create then exists", func(t *testing.T) {
		s := newStore(t)
		if ok, _ := s.Exists("k1"); ok {
			t.Fatal("Exists() = true before Create")
		}
		if err := s.Create("k1"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if ok, err := s.Exists("k1"); err != nil || !ok {
			t.Fatalf("Exists() = %v, %v; want true, nil", ok, err)
		}
	})

	t.Run("create twice fails", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create("k1"); err != nil {
			t.Fatal(err)
		}
		if err := s.Create("k1"); err == nil {
			t.Fatal("second Create() expected error")
		}
	})

	t.Run("put get overwrite", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create("k1"); err != nil {
			t.Fatal(err)
		}
		if err := s.Put("k1", "login_cache", strings.NewReader("version 1")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := s.Put("k1", "login_cache", strings.NewReader("version 2")); err != nil {
			t.Fatalf("second Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := s.Get("k1", "login_cache", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if buf.String() != "version 2" {
			t.Errorf("content = %q, want %q", buf.String(), "version 2")
		}
	})

	t.Run("has", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create("k1"); err != nil {
			t.Fatal(err)
		}
		if err := s.Put("k1", "login_cache", strings.NewReader("x")); err != nil {
			t.Fatal(err)
		}
		if ok, _ := s.Has("k1", "login_cache"); !ok {
			t.Error("Has(login_cache) = false, want true")
		}
		if ok, _ := s.Has("k1", "login_cache.crc"); ok {
			t.Error("Has(login_cache.crc) = true, want false")
		}
	})

	t.Run("get missing file", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create("k1"); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		err := s.Get("k1", "login_cache", &buf)
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("Get() error = %v, want not found", err)
		}
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create("k1"); err != nil {
			t.Fatal(err)
		}
		if err := s.Put("k1", "login_cache", strings.NewReader("x")); err != nil {
			t.Fatal(err)
		}
		if err := s.Remove("k1"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if ok, _ := s.Exists("k1"); ok {
			t.Error("Exists() = true after Remove")
		}
		if err := s.Remove("k1"); err != nil {
			t.Errorf("second Remove() error = %v", err)
		}
	})

	t.Run("keys sorted", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"cc", "aa", "bb"} {
			if err := s.Create(k); err != nil {
				t.Fatal(err)
			}
		}
		keys, err := s.Keys()
		if err != nil {
			t.Fatal(err)
		}
		if strings.Join(keys, ",") != "aa,bb,cc" {
			t.Errorf("Keys() = %v, want [aa bb cc]", keys)
		}
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		s := newStore(t)
		for _, key := range []string{"", ".", "..", "../escape", "a/b", `a\b`, ".hidden"} {
			if err := s.Create(key); err == nil {
				t.Errorf("Create(%q) expected error", key)
			}
		}
		if err := s.Create("k1"); err != nil {
			t.Fatal(err)
		}
		if err := s.Put("k1", "../login_cache", strings.NewReader("x")); err == nil {
			t.Error("Put() with traversal name expected error")
		}

		for _, key := range []string{"..", "../k1", "k1/.."} {
			if _, err := s.Exists(key); err == nil {
				t.Errorf("Exists(%q) expected error", key)
			}
			if _, err := s.Has(key, "login_cache"); err == nil {
				t.Errorf("Has(%q) expected error", key)
			}
			if err := s.Get(key, "login_cache", io.Discard); err == nil {
				t.Errorf("Get(%q) expected error", key)
			}
			if err := s.Remove(key); err == nil {
				t.Errorf("Remove(%q) expected error", key)
			}
		}
		if _, err := s.Has("k1", "../login_cache"); err == nil {
			t.Error("Has() with traversal name expected error")
		}
		if err := s.Get("k1", "../login_cache", io.Discard); err == nil {
			t.Error("Get() with traversal name expected error")
		}
	})
}

func TestFileSystemStore_Contract(t *testing.T) {
	storeContract(t, func(t *testing.T) switcher.BackupStore {
		s, err := NewFileSystemStore(filepath.Join(t.TempDir(), "Backups"))
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		return s
	})
}

func TestNewFileSystemStore(t *testing.T) {
	t.Run("creates root", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "a", "Backups")
		s, err := NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		if s.Root() != root {
			t.Errorf("Root() = %q, want %q", s.Root(), root)
		}
		if err := s.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("missing root directory", func(t *testing.T) {
		s := &FileSystemStore{root: "/nonexistent/path"}
		if err := s.ValidateSetup(); err == nil {
			t.Error("ValidateSetup() expected error for missing root")
		}
	})
}

func TestFileSystemStore_Layout(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Create("k1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("k1", "login_cache", strings.NewReader("hello world")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "k1", "login_cache"))
	if err != nil {
		t.Fatalf("backup file not at <root>/<key>/<name>: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("content = %q, want %q", data, "hello world")
	}

	entries, err := os.ReadDir(filepath.Join(root, "k1"))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestFileSystemStore_KeysSkipsFilesAndHidden(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Create("k1"); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, ".trash"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "k1" {
		t.Errorf("Keys() = %v, want [k1]", keys)
	}
}
