package switcher

import "io"

// IndexStore persists the account index as one document.
type IndexStore interface {
	// Load returns the persisted records, newest first.
	// A missing document yields an empty slice and no error.
	// A document that cannot be parsed yields a KindParseFailure error.
	Load() ([]AccountRecord, error)

	// Save replaces the persisted document with records.
	Save(records []AccountRecord) error
}

// BackupStore holds one folder of credential files per storage key.
// Implementations must reject storage keys and file names that are not a
// single path element.
type BackupStore interface {
	// Create makes a new empty folder. It fails if the folder already exists.
	Create(storageKey string) error

	// Exists reports whether the folder for storageKey exists.
	Exists(storageKey string) (bool, error)

	// Put writes a file into the folder, replacing any previous content.
	Put(storageKey, name string, r io.Reader) error

	// Has reports whether the folder contains the named file.
	Has(storageKey, name string) (bool, error)

	// Get copies the named file to w.
	Get(storageKey, name string, w io.Writer) error

	// Remove deletes the folder and its contents. Removing a folder that
	// does not exist is not an error.
	Remove(storageKey string) error

	// Keys lists the storage keys of every folder present.
	Keys() ([]string, error)
}

// FilesystemManager performs the file operations needed on the game's live
// data directory. It abstracts file access to enable testing without
// touching the real filesystem.
type FilesystemManager interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// WriteFile replaces the file at path with the content of r.
	WriteFile(path string, r io.Reader) error

	// Remove deletes the file at path.
	Remove(path string) error

	// Fingerprint returns the content fingerprint of the file at path,
	// or the empty string if it does not exist.
	Fingerprint(path string) (string, error)
}

// Encryptor encrypts credential files before they are written to a backup
// store. Encryption uses the public key only and needs no user input.
type Encryptor interface {
	// Setup performs one-time key generation, protecting the private key
	// with passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key and returns a context that can
	// decrypt for the rest of the session.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether the key pair exists.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
