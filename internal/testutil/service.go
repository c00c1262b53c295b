package testutil

import (
	"path/filepath"

	"efswitch/internal/index"
	"efswitch/internal/switcher"
	"efswitch/internal/vault"
)

// LiveDir is the live data directory used by Harness.
var LiveDir = filepath.Join("live", "sdk_data")

// Harness is a Service wired entirely to in-memory fakes.
type Harness struct {
	Service  *switcher.Service
	Index    *index.MemoryIndex
	Backups  *vault.MemoryStore
	Files    *MockFilesystemManager
	Resolver *StubResolver
	Guard    *StubGuard
	Launcher *StubLauncher
	Clock    *StubClock
	IDs      *StubIDGenerator
	Keys     *StubIDGenerator
}

// NewHarness builds a Service over fresh fakes. Account IDs are "id-N" and
// storage keys "key-N".
func NewHarness() *Harness {
	h := &Harness{
		Index:    NewTestIndex(),
		Backups:  NewTestBackupStore(),
		Files:    NewMockFilesystemManager(),
		Resolver: &StubResolver{Dir: LiveDir},
		Guard:    &StubGuard{},
		Launcher: &StubLauncher{},
		Clock:    FixedClock(),
		IDs:      NewPrefixedIDGenerator("id"),
		Keys:     NewPrefixedIDGenerator("key"),
	}
	h.Service = switcher.NewService(h.Deps())
	return h
}

// Deps returns the collaborators of h, for building a Service with one of them replaced.
func (h *Harness) Deps() switcher.Deps {
	return switcher.Deps{
		Index:    h.Index,
		Backups:  h.Backups,
		Files:    h.Files,
		Resolver: h.Resolver,
		Guard:    h.Guard,
		Launcher: h.Launcher,
		Clock:    h.Clock,
		IDs:      h.IDs,
		Keys:     h.Keys,
	}
}

// LivePath returns the path of a credential file in the live directory.
func LivePath(name string) string {
	return filepath.Join(LiveDir, name)
}

// SetSession writes a primary credential file (and a companion if crc is
// non-nil) into the live directory.
func (h *Harness) SetSession(primary, crc []byte) {
	h.Files.AddFile(LivePath(switcher.PrimaryFile), primary)
	if crc != nil {
		h.Files.AddFile(LivePath(switcher.CompanionFile), crc)
	}
}
