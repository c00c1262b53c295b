package platform

import (
	"os"
	"path/filepath"
	"testing"

	"efswitch/internal/config"
	"efswitch/internal/switcher"
)

// mkdirWith creates dir and, if withSentinel is set, the primary credential file in it.
func mkdirWith(t *testing.T, dir string, withSentinel bool) {
	t.Helper()
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if withSentinel {
		if err := os.WriteFile(filepath.Join(dir, switcher.PrimaryFile), []byte("session"), 0600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, local, localLow string)
		want   func(local, localLow string) string
		notFnd bool
	}{
		{
			name: "first sdk dir with sentinel",
			setup: func(t *testing.T, local, localLow string) {
				mkdirWith(t, filepath.Join(local, "sdk_data_1"), true)
			},
			want: func(local, _ string) string { return filepath.Join(local, "sdk_data_1") },
		},
		{
			name: "sorted scan order",
			setup: func(t *testing.T, local, localLow string) {
				mkdirWith(t, filepath.Join(local, "sdk_b"), true)
				mkdirWith(t, filepath.Join(local, "sdk_a"), true)
			},
			want: func(local, _ string) string { return filepath.Join(local, "sdk_a") },
		},
		{
			name: "prefix is required",
			setup: func(t *testing.T, local, localLow string) {
				mkdirWith(t, filepath.Join(local, "cache"), true)
				mkdirWith(t, filepath.Join(local, "sdk_real"), true)
			},
			want: func(local, _ string) string { return filepath.Join(local, "sdk_real") },
		},
		{
			name: "sentinel is required",
			setup: func(t *testing.T, local, localLow string) {
				mkdirWith(t, filepath.Join(local, "sdk_empty"), false)
				mkdirWith(t, filepath.Join(local, "sdk_full"), true)
			},
			want: func(local, _ string) string { return filepath.Join(local, "sdk_full") },
		},
		{
			name: "falls through to second root",
			setup: func(t *testing.T, local, localLow string) {
				mkdirWith(t, filepath.Join(local, "sdk_empty"), false)
				mkdirWith(t, filepath.Join(localLow, "sdk_data"), true)
			},
			want: func(_, localLow string) string { return filepath.Join(localLow, "sdk_data") },
		},
		{
			name: "sentinel may be a directory",
			setup: func(t *testing.T, local, localLow string) {
				mkdirWith(t, filepath.Join(local, "sdk_odd", switcher.PrimaryFile), false)
			},
			want: func(local, _ string) string { return filepath.Join(local, "sdk_odd") },
		},
		{
			name: "plain file with sdk prefix is skipped",
			setup: func(t *testing.T, local, localLow string) {
				mkdirWith(t, local, false)
				if err := os.WriteFile(filepath.Join(local, "sdk_notes.txt"), []byte("x"), 0600); err != nil {
					t.Fatal(err)
				}
			},
			notFnd: true,
		},
		{
			name: "unreadable root is skipped",
			setup: func(t *testing.T, local, localLow string) {
				if err := os.WriteFile(local, []byte("not a directory"), 0600); err != nil {
					t.Fatal(err)
				}
				mkdirWith(t, filepath.Join(localLow, "sdk_data"), true)
			},
			want: func(_, localLow string) string { return filepath.Join(localLow, "sdk_data") },
		},
		{
			name: "unreadable root next to an empty one",
			setup: func(t *testing.T, local, localLow string) {
				if err := os.WriteFile(local, []byte("not a directory"), 0600); err != nil {
					t.Fatal(err)
				}
			},
			notFnd: true,
		},
		{
			name:   "missing roots",
			setup:  func(t *testing.T, local, localLow string) {},
			notFnd: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			local := filepath.Join(base, "Local")
			localLow := filepath.Join(base, "LocalLow")
			tt.setup(t, local, localLow)

			r := NewResolver(config.GameConfig{SearchRoots: []string{local, localLow}})
			got, err := r.Resolve()

			if tt.notFnd {
				if !switcher.IsKind(err, switcher.KindNotFound) {
					t.Fatalf("Resolve() error = %v, want not found", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if want := tt.want(local, localLow); got != want {
				t.Errorf("Resolve() = %q, want %q", got, want)
			}
		})
	}
}

func TestResolver_AllRootsUnreadable(t *testing.T) {
	base := t.TempDir()
	var roots []string
	for _, name := range []string{"Local", "LocalLow"} {
		p := filepath.Join(base, name)
		if err := os.WriteFile(p, []byte("not a directory"), 0600); err != nil {
			t.Fatal(err)
		}
		roots = append(roots, p)
	}

	_, err := NewResolver(config.GameConfig{SearchRoots: roots}).Resolve()
	if !switcher.IsKind(err, switcher.KindIOFailure) {
		t.Fatalf("Resolve() error = %v, want i/o failure", err)
	}
}

func TestResolver_DataDirOverride(t *testing.T) {
	t.Run("existing override wins without sentinel", func(t *testing.T) {
		override := t.TempDir()
		other := t.TempDir()
		mkdirWith(t, filepath.Join(other, "sdk_data"), true)

		r := NewResolver(config.GameConfig{DataDir: override, SearchRoots: []string{other}})
		got, err := r.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != override {
			t.Errorf("Resolve() = %q, want %q", got, override)
		}
	})

	t.Run("missing override", func(t *testing.T) {
		r := NewResolver(config.GameConfig{DataDir: filepath.Join(t.TempDir(), "nope")})
		if _, err := r.Resolve(); !switcher.IsKind(err, switcher.KindNotFound) {
			t.Fatalf("Resolve() error = %v, want not found", err)
		}
	})
}

func TestDefaultSearchRoots(t *testing.T) {
	t.Setenv("USERPROFILE", "/users/player")

	roots := DefaultSearchRoots()
	want := []string{
		filepath.Join("/users/player", "AppData", "Local", "Hypergryph", "Endfield"),
		filepath.Join("/users/player", "AppData", "LocalLow", "Hypergryph", "Endfield"),
	}
	if len(roots) != len(want) {
		t.Fatalf("DefaultSearchRoots() = %v, want %v", roots, want)
	}
	for i := range want {
		if roots[i] != want[i] {
			t.Errorf("roots[%d] = %q, want %q", i, roots[i], want[i])
		}
	}
}
