package app

import "os"

// PassphraseFromEnv returns a PassphraseFunc that uses EFSWITCH_PASSPHRASE
// when it is set and falls back to prompt otherwise. prompt may be nil.
func PassphraseFromEnv(prompt PassphraseFunc) PassphraseFunc {
	return func() (string, error) {
		if p, ok := os.LookupEnv(EnvPassphrase); ok {
			return p, nil
		}
		if prompt == nil {
			return "", errNoPassphrase
		}
		return prompt()
	}
}
