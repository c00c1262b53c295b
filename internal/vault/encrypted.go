package vault

import (
	"fmt"
	"io"
	"sync"

	"efswitch/internal/switcher"
)

// UnlockFunc produces the decryption context for a session, typically by
// asking the user for a passphrase. It is called at most once per store.
type UnlockFunc func() (switcher.DecryptionContext, error)

// EncryptedStore wraps a BackupStore so file contents are encrypted on the
// way in and decrypted on the way out. Folder names and file names are
// passed through unchanged.
//
// Writing only needs the public key. The private key is unlocked lazily on
// the first Get, so capture never prompts for a passphrase.
type EncryptedStore struct {
	inner  switcher.BackupStore
	enc    switcher.Encryptor
	unlock UnlockFunc

	mu  sync.Mutex
	ctx switcher.DecryptionContext
}

// NewEncryptedStore creates an encrypting decorator around inner.
func NewEncryptedStore(inner switcher.BackupStore, enc switcher.Encryptor, unlock UnlockFunc) *EncryptedStore {
	return &EncryptedStore{inner: inner, enc: enc, unlock: unlock}
}

func (e *EncryptedStore) Create(storageKey string) error {
	return e.inner.Create(storageKey)
}

func (e *EncryptedStore) Exists(storageKey string) (bool, error) {
	return e.inner.Exists(storageKey)
}

// Put streams r through the encryptor into the wrapped store. It returns
// only after the encryptor has stopped reading r.
func (e *EncryptedStore) Put(storageKey, name string, r io.Reader) error {
	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(e.enc.Encrypt(r, pw))
	}()

	err := e.inner.Put(storageKey, name, pr)
	pr.CloseWithError(err) // unblock the encryptor if Put failed early
	<-done
	if err != nil {
		return fmt.Errorf("storing encrypted %s: %w", name, err)
	}
	return nil
}

func (e *EncryptedStore) Has(storageKey, name string) (bool, error) {
	return e.inner.Has(storageKey, name)
}

// Get decrypts the stored file into w, unlocking the private key first if
// this is the first read of the session.
func (e *EncryptedStore) Get(storageKey, name string, w io.Writer) error {
	ctx, err := e.decryptionContext()
	if err != nil {
		return err
	}

	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(e.inner.Get(storageKey, name, pw))
	}()

	decryptErr := ctx.Decrypt(pr, w)
	pr.CloseWithError(decryptErr)
	<-done
	if decryptErr != nil {
		return fmt.Errorf("decrypting %s: %w", name, decryptErr)
	}
	return nil
}

func (e *EncryptedStore) Remove(storageKey string) error {
	return e.inner.Remove(storageKey)
}

func (e *EncryptedStore) Keys() ([]string, error) {
	return e.inner.Keys()
}

func (e *EncryptedStore) decryptionContext() (switcher.DecryptionContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx != nil {
		return e.ctx, nil
	}
	if e.unlock == nil {
		return nil, fmt.Errorf("backups are encrypted but no passphrase source is configured")
	}
	ctx, err := e.unlock()
	if err != nil {
		return nil, fmt.Errorf("unlocking private key: %w", err)
	}
	e.ctx = ctx
	return ctx, nil
}

var _ switcher.BackupStore = (*EncryptedStore)(nil)
