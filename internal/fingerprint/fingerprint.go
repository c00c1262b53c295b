// Package fingerprint computes the content identity of credential files.
//
// A fingerprint is the lowercase hex SHA-256 digest of a file's bytes. It is
// the only key used to detect that two captures hold the same game session,
// so it must come from a collision-resistant hash.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
)

// Empty is the fingerprint of a file that does not exist.
const Empty = ""

// Digest accumulates bytes written to it and reports their fingerprint.
// It is meant to sit behind an io.TeeReader so a copy is fingerprinted
// while it streams.
type Digest struct {
	h hash.Hash
}

// New returns an empty Digest.
func New() *Digest {
	return &Digest{h: sha256.New()}
}

func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// String returns the hex digest of everything written so far.
func (d *Digest) String() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Sum streams r to EOF and returns its fingerprint.
func Sum(r io.Reader) (string, error) {
	d := New()
	if _, err := io.Copy(d, r); err != nil {
		return "", err
	}
	return d.String(), nil
}

// File returns the fingerprint of the file at path, or Empty when the path
// does not exist. Any other failure to open or read the file is returned.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty, nil
		}
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sum, err := Sum(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return sum, nil
}
