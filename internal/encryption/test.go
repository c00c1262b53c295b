package encryption

import (
	"bytes"
	"fmt"
	"io"

	"efswitch/internal/switcher"
)

// testHeader is prepended to data by TestEncryptor so the bytes at rest
// differ from the plaintext while staying deterministic.
var testHeader = []byte("EFSENC\x00\x00")

// TestEncryptor is a deterministic, reversible stand-in for AgeEncryptor.
// It prepends a fixed header during encryption and strips it during
// decryption. If Setup was called, Unlock only accepts the same passphrase,
// which lets callers exercise the wrong-passphrase path without scrypt.
type TestEncryptor struct {
	passphrase  string
	setupCalled bool
}

var _ switcher.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a new TestEncryptor.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	e.setupCalled = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (switcher.DecryptionContext, error) {
	if e.setupCalled && passphrase != e.passphrase {
		return nil, fmt.Errorf("incorrect passphrase")
	}
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

// TestDecryptionContext strips the test header added by TestEncryptor.
type TestDecryptionContext struct{}

var _ switcher.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test encryption header")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
