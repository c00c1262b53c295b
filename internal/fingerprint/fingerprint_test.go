package fingerprint

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
)

func TestFile(t *testing.T) {
	t.Run("missing file has empty fingerprint", func(t *testing.T) {
		got, err := File(filepath.Join(t.TempDir(), "login_cache"))
		if err != nil {
			t.Fatalf("File() error = %v", err)
		}
		if got != Empty {
			t.Errorf("File() = %q, want empty", got)
		}
	})

	t.Run("known digest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "login_cache")
		if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := File(path)
		if err != nil {
			t.Fatalf("File() error = %v", err)
		}
		want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
		if got != want {
			t.Errorf("File() = %q, want %q", got, want)
		}
	})

	t.Run("identical bytes at different paths match", func(t *testing.T) {
		dir := t.TempDir()
		a := filepath.Join(dir, "a")
		b := filepath.Join(dir, "nested", "b")
		if err := os.MkdirAll(filepath.Dir(b), 0755); err != nil {
			t.Fatal(err)
		}
		for _, p := range []string{a, b} {
			if err := os.WriteFile(p, []byte("session-token"), 0644); err != nil {
				t.Fatal(err)
			}
		}

		fb, err := File(b)
		if err != nil {
			t.Fatalf("File(b) error = %v", err)
		}
		fa, err := File(a)
		if err != nil {
			t.Fatalf("File(a) error = %v", err)
		}
		if fa != fb {
			t.Errorf("fingerprints differ: %q vs %q", fa, fb)
		}
	})

	t.Run("empty file is not the absent fingerprint", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty")
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
		got, err := File(path)
		if err != nil {
			t.Fatalf("File() error = %v", err)
		}
		if got == Empty {
			t.Error("File() of an existing empty file returned the absent fingerprint")
		}
	})

	t.Run("directory is an error", func(t *testing.T) {
		if _, err := File(t.TempDir()); err == nil {
			t.Error("File() on a directory should fail")
		}
	})
}

func TestSum(t *testing.T) {
	t.Run("matches Digest fed through a tee", func(t *testing.T) {
		content := strings.Repeat("credential", 1000)

		d := New()
		if _, err := io.Copy(io.Discard, io.TeeReader(strings.NewReader(content), d)); err != nil {
			t.Fatal(err)
		}

		sum, err := Sum(strings.NewReader(content))
		if err != nil {
			t.Fatalf("Sum() error = %v", err)
		}
		if d.String() != sum {
			t.Errorf("Digest = %q, Sum = %q", d.String(), sum)
		}
	})

	t.Run("read error is returned", func(t *testing.T) {
		if _, err := Sum(iotest.ErrReader(io.ErrUnexpectedEOF)); err == nil {
			t.Error("Sum() should surface read errors")
		}
	})
}
