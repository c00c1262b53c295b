package testutil

import (
	"efswitch/internal/encryption"
	"efswitch/internal/switcher"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() switcher.Encryptor {
	return encryption.NewTestEncryptor()
}
