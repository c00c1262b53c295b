package switcher_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"efswitch/internal/index"
	"efswitch/internal/switcher"
	"efswitch/internal/testutil"
)

func TestDeleteAccount(t *testing.T) {
	h := testutil.NewHarness()
	h.SetSession([]byte("session-A"), nil)
	a := mustCapture(t, h, "A")
	h.SetSession([]byte("session-B"), nil)
	b := mustCapture(t, h, "B")

	if err := h.Service.DeleteAccount(a.ID); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}

	accounts, _ := h.Service.ListAccounts()
	if len(accounts) != 1 || accounts[0].ID != b.ID {
		t.Errorf("ListAccounts() = %+v, want only B", accounts)
	}
	if ok, _ := h.Backups.Exists(a.StorageKey); ok {
		t.Error("backup folder of deleted account still exists")
	}
	if ok, _ := h.Backups.Exists(b.StorageKey); !ok {
		t.Error("backup folder of remaining account was removed")
	}
}

func TestDeleteAccount_BackupRemovalFailureKeepsIndex(t *testing.T) {
	h := testutil.NewHarness()
	h.SetSession([]byte("session-A"), nil)
	a := mustCapture(t, h, "A")

	deps := h.Deps()
	deps.Backups = &failingBackups{BackupStore: h.Backups, err: errors.New("locked")}
	svc := switcher.NewService(deps)
	saves := h.Index.Saves()

	err := svc.DeleteAccount(a.ID)
	if !switcher.IsKind(err, switcher.KindIOFailure) {
		t.Fatalf("DeleteAccount() error = %v, want i/o failure", err)
	}
	if h.Index.Saves() != saves {
		t.Error("index was saved although the backup folder could not be removed")
	}
	if accounts, _ := svc.ListAccounts(); len(accounts) != 1 {
		t.Errorf("len(accounts) = %d, want 1", len(accounts))
	}
}

func TestRenameAccount(t *testing.T) {
	h := testutil.NewHarness()
	h.SetSession([]byte("session-A"), nil)
	a := mustCapture(t, h, "A")

	if err := h.Service.RenameAccount(a.ID, "Main alt"); err != nil {
		t.Fatalf("RenameAccount() error = %v", err)
	}

	accounts, _ := h.Service.ListAccounts()
	got := accounts[0]
	if got.DisplayName != "Main alt" {
		t.Errorf("DisplayName = %q, want %q", got.DisplayName, "Main alt")
	}
	want := *a
	want.DisplayName = "Main alt"
	if got != want {
		t.Errorf("rename changed more than the name: got %+v, want %+v", got, want)
	}
}

func TestUnknownIDIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.json")

	h := testutil.NewHarness()
	deps := h.Deps()
	deps.Index = index.NewJSONIndex(path)
	svc := switcher.NewService(deps)

	h.SetSession([]byte("session-A"), nil)
	if _, err := svc.CaptureAccount("A"); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	keys, _ := h.Backups.Keys()

	tests := []struct {
		name string
		op   func() error
	}{
		{name: "delete", op: func() error { return svc.DeleteAccount("no-such-id") }},
		{name: "rename", op: func() error { return svc.RenameAccount("no-such-id", "X") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); err != nil {
				t.Fatalf("error = %v", err)
			}
			after, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(before, after) {
				t.Errorf("index changed:\n%s\n---\n%s", before, after)
			}
			if got, _ := h.Backups.Keys(); len(got) != len(keys) {
				t.Errorf("backup keys = %v, want %v", got, keys)
			}
		})
	}
}

func TestDeleteAccount_Twice(t *testing.T) {
	h := testutil.NewHarness()
	h.SetSession([]byte("session-A"), nil)
	a := mustCapture(t, h, "A")

	if err := h.Service.DeleteAccount(a.ID); err != nil {
		t.Fatal(err)
	}
	saves := h.Index.Saves()
	if err := h.Service.DeleteAccount(a.ID); err != nil {
		t.Fatalf("second DeleteAccount() error = %v", err)
	}
	if h.Index.Saves() != saves {
		t.Error("second delete saved the index")
	}
}

func TestFindAccount(t *testing.T) {
	h := testutil.NewHarness()
	deps := h.Deps()
	deps.IDs = &listIDs{ids: []string{"01J9ZKAAAA", "01J9ZKBBBB", "01J9ZKBBCC"}}
	svc := switcher.NewService(deps)

	for i, name := range []string{"Main", "Alt", "Alt"} {
		h.SetSession([]byte{byte('a' + i)}, nil)
		if _, err := svc.CaptureAccount(name); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		selector string
		wantID   string
		wantKind switcher.Kind
		wantAmb  bool
	}{
		{name: "exact id", selector: "01J9ZKBBBB", wantID: "01J9ZKBBBB"},
		{name: "storage key", selector: "key-1", wantID: "01J9ZKAAAA"},
		{name: "unique prefix", selector: "01J9ZKA", wantID: "01J9ZKAAAA"},
		{name: "surrounding space", selector: "  01J9ZKAAAA ", wantID: "01J9ZKAAAA"},
		{name: "ambiguous prefix", selector: "01J9ZKBB", wantAmb: true},
		{name: "prefix too short", selector: "01J9Z", wantKind: switcher.KindNotFound},
		{name: "unique name", selector: "Main", wantID: "01J9ZKAAAA"},
		{name: "ambiguous name", selector: "Alt", wantAmb: true},
		{name: "empty", selector: " ", wantKind: switcher.KindNotFound},
		{name: "no match", selector: "nobody", wantKind: switcher.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.FindAccount(tt.selector)
			switch {
			case tt.wantAmb:
				if !errors.Is(err, switcher.ErrAmbiguousSelector) {
					t.Fatalf("FindAccount(%q) error = %v, want ambiguous", tt.selector, err)
				}
			case tt.wantKind != "":
				if !switcher.IsKind(err, tt.wantKind) {
					t.Fatalf("FindAccount(%q) error = %v, want %s", tt.selector, err, tt.wantKind)
				}
			default:
				if err != nil {
					t.Fatalf("FindAccount(%q) error = %v", tt.selector, err)
				}
				if rec.ID != tt.wantID {
					t.Errorf("FindAccount(%q).ID = %q, want %q", tt.selector, rec.ID, tt.wantID)
				}
			}
		})
	}
}
