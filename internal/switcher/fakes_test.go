package switcher_test

import (
	"io"

	"efswitch/internal/switcher"
	"efswitch/internal/vault"
)

// brokenIndex always fails to parse.
type brokenIndex struct{}

func (*brokenIndex) Load() ([]switcher.AccountRecord, error) {
	return nil, switcher.ParseFailure("accounts.json", io.ErrUnexpectedEOF)
}

func (*brokenIndex) Save([]switcher.AccountRecord) error { return nil }

// newRejectingStore reads plaintext backups as if they were encrypted, so
// every Get fails.
func newRejectingStore(inner switcher.BackupStore, enc switcher.Encryptor) switcher.BackupStore {
	return vault.NewEncryptedStore(inner, enc, func() (switcher.DecryptionContext, error) {
		return enc.Unlock("")
	})
}

// listIDs hands out the given IDs in order.
type listIDs struct {
	ids []string
}

func (l *listIDs) New() string {
	id := l.ids[0]
	l.ids = l.ids[1:]
	return id
}

// failingBackups refuses to remove folders.
type failingBackups struct {
	switcher.BackupStore
	err error
}

func (f *failingBackups) Remove(string) error { return f.err }

// failingSave loads normally but refuses to save.
type failingSave struct {
	switcher.IndexStore
	err error
}

func (f *failingSave) Save([]switcher.AccountRecord) error { return f.err }
