package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"efswitch/internal/config"
	"efswitch/internal/database"
	"efswitch/internal/encryption"
	"efswitch/internal/fs"
	"efswitch/internal/index"
	"efswitch/internal/platform"
	"efswitch/internal/switcher"
	"efswitch/internal/vault"
)

// Operation names recorded in the journal.
const (
	OpListAccounts    = "ListAccounts"
	OpCaptureAccount  = "CaptureAccount"
	OpSwitchAccount   = "SwitchAccount"
	OpDeleteAccount   = "DeleteAccount"
	OpRenameAccount   = "RenameAccount"
	OpCurrentAccount  = "CurrentAccount"
	OpLaunchGame      = "LaunchGame"
	OpCheck           = "Check"
	OpPruneOrphans    = "PruneOrphans"
	OpHistory         = "History"
	OpSetupEncryption = "SetupEncryption"
)

// PassphraseFunc returns the passphrase protecting the private key.
type PassphraseFunc func() (string, error)

var errNoPassphrase = fmt.Errorf("backups are encrypted; a passphrase is required (set %s)", EnvPassphrase)

// ErrEncryptionDisabled is returned by SetupEncryption when encryption.type is "none".
var ErrEncryptionDisabled = errors.New(`encryption is disabled; set [encryption] type = "age" first`)

// EFApp is the application layer between the CLI and switcher.Service.
// It constructs all dependencies from config, resolves account selectors,
// journals mutating operations, and manages the journal lifecycle on Close.
type EFApp struct {
	cfg        *config.Config
	journal    database.Journal
	encryptor  switcher.Encryptor
	passphrase PassphraseFunc
	service    *switcher.Service
	op         *Operation
	logFile    *os.File
}

// NewEFApp creates a fully wired EFApp from the given config.
// operation identifies the CLI command being run (e.g. OpCaptureAccount).
// passphrase is only called when an encrypted backup has to be read; it may
// be nil when encryption is disabled. The caller must call Close when done.
func NewEFApp(cfg *config.Config, operation string, passphrase PassphraseFunc) (*EFApp, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	idx, err := index.NewIndexFromConfig(cfg.Index)
	if err != nil {
		return nil, fmt.Errorf("creating account index: %w", err)
	}

	backups, err := vault.NewBackupStoreFromConfig(cfg.Backups)
	if err != nil {
		return nil, fmt.Errorf("creating backup store: %w", err)
	}
	if v, ok := backups.(interface{ ValidateSetup() error }); ok {
		if err := v.ValidateSetup(); err != nil {
			return nil, fmt.Errorf("validating backup store: %w", err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if enc != nil && !enc.IsConfigured() && operation != OpSetupEncryption {
		return nil, fmt.Errorf("encryption keys not found at %s; run `efswitch config encryption init`", cfg.Encryption.PublicKeyPath)
	}

	journal, err := database.NewJournalFromConfig(cfg.Journal, switcher.RealClock{})
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, level)
	if err != nil {
		journal.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a := &EFApp{
		cfg:        cfg,
		journal:    journal,
		encryptor:  enc,
		passphrase: passphrase,
		op:         NewOperation(operation, ""),
		logFile:    logFile,
	}

	store := backups
	if enc != nil {
		store = vault.NewEncryptedStore(backups, enc, a.unlock)
	}

	a.service = switcher.NewService(switcher.Deps{
		Index:       idx,
		Backups:     store,
		Files:       fs.NewOSFilesystemManager(),
		Resolver:    platform.NewResolver(cfg.Game),
		Guard:       platform.NewProcessGuard(),
		Launcher:    platform.NewLauncher(),
		Logger:      &slogAdapter{l: logger},
		ProcessName: cfg.Game.ProcessName,
	})
	return a, nil
}

// unlock asks for the passphrase and unlocks the private key.
func (a *EFApp) unlock() (switcher.DecryptionContext, error) {
	if a.passphrase == nil {
		return nil, errNoPassphrase
	}
	p, err := a.passphrase()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	return a.encryptor.Unlock(p)
}

// persistOperation saves the operation to the journal, giving it an ID.
// This should only be called for mutating commands.
func (a *EFApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	id, err := a.journal.Start(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = id
	return nil
}

// Config returns the configuration the app was built from.
func (a *EFApp) Config() *config.Config {
	return a.cfg
}

// ListAccounts returns the saved accounts, newest first.
func (a *EFApp) ListAccounts() ([]switcher.AccountRecord, error) {
	return a.service.ListAccounts()
}

// CurrentAccount returns the fingerprint of the live session and the saved
// account it belongs to, or nil if it matches none. When the live directory
// cannot be found the fingerprint is empty and the error is returned.
func (a *EFApp) CurrentAccount() (*switcher.AccountRecord, string, error) {
	fp, err := a.service.CurrentFingerprint()
	if err != nil {
		return nil, "", err
	}
	records, err := a.service.ListAccounts()
	if err != nil {
		return nil, fp, err
	}
	return switcher.MatchFingerprint(records, fp), fp, nil
}

// Capture saves the live session as a new account named label.
func (a *EFApp) Capture(label string) (*switcher.AccountRecord, error) {
	if err := a.persistOperation(label); err != nil {
		return nil, err
	}
	rec, err := a.service.CaptureAccount(label)
	return rec, a.op.Record(err)
}

// Switch makes the account matching selector the live session.
func (a *EFApp) Switch(selector string) (*switcher.AccountRecord, error) {
	if err := a.persistOperation(selector); err != nil {
		return nil, err
	}
	rec, err := a.service.FindAccount(selector)
	if err != nil {
		return nil, a.op.Record(err)
	}
	return rec, a.op.Record(a.service.SwitchAccount(rec.StorageKey))
}

// Delete removes the account matching selector and its backup.
// A selector matching no account is a no-op and returns a nil record.
func (a *EFApp) Delete(selector string) (*switcher.AccountRecord, error) {
	if err := a.persistOperation(selector); err != nil {
		return nil, err
	}
	rec, err := a.findForUpdate(selector)
	if err != nil {
		return nil, a.op.Record(err)
	}
	if rec == nil {
		return nil, a.op.Record(a.service.DeleteAccount(selector))
	}
	return rec, a.op.Record(a.service.DeleteAccount(rec.ID))
}

// Rename sets the display name of the account matching selector.
// A selector matching no account is a no-op and returns a nil record.
func (a *EFApp) Rename(selector, label string) (*switcher.AccountRecord, error) {
	if err := a.persistOperation(selector + " -> " + label); err != nil {
		return nil, err
	}
	rec, err := a.findForUpdate(selector)
	if err != nil {
		return nil, a.op.Record(err)
	}
	if rec == nil {
		return nil, a.op.Record(a.service.RenameAccount(selector, label))
	}
	if err := a.service.RenameAccount(rec.ID, label); err != nil {
		return nil, a.op.Record(err)
	}
	renamed := *rec
	renamed.DisplayName = label
	return &renamed, nil
}

// findForUpdate resolves selector for delete and rename, where an unknown
// account is not an error. Ambiguous selectors still fail.
func (a *EFApp) findForUpdate(selector string) (*switcher.AccountRecord, error) {
	rec, err := a.service.FindAccount(selector)
	if switcher.IsKind(err, switcher.KindNotFound) {
		return nil, nil
	}
	return rec, err
}

// Launch starts the game at exePath, or at game.exe_path when exePath is empty.
func (a *EFApp) Launch(exePath string) error {
	if exePath == "" {
		exePath = a.cfg.Game.ExePath
	}
	return a.service.LaunchGame(exePath)
}

// Check compares the index with the backup store.
func (a *EFApp) Check(verify bool) (*switcher.CheckReport, error) {
	return a.service.Check(verify)
}

// Prune removes orphan backup folders and returns their storage keys.
func (a *EFApp) Prune() ([]string, error) {
	if err := a.persistOperation(""); err != nil {
		return nil, err
	}
	removed, err := a.service.PruneOrphans()
	return removed, a.op.Record(err)
}

// History returns the most recent journaled operations.
func (a *EFApp) History(limit int) ([]*database.Operation, error) {
	return a.journal.List(limit)
}

// SetupEncryption generates the key pair protected by passphrase and returns
// the public key when the encryptor can report it.
func (a *EFApp) SetupEncryption(passphrase string) (string, error) {
	if a.encryptor == nil {
		return "", ErrEncryptionDisabled
	}
	if err := a.persistOperation(a.cfg.Encryption.Type); err != nil {
		return "", err
	}
	if err := a.op.Record(a.encryptor.Setup(passphrase)); err != nil {
		return "", fmt.Errorf("setting up encryption: %w", err)
	}
	if pk, ok := a.encryptor.(interface{ PublicKey() (string, error) }); ok {
		return pk.PublicKey()
	}
	return "", nil
}

// Close finalizes the operation and closes all resources.
// For persisted operations the journal row is finished with the recorded status.
func (a *EFApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.journal.Finish(a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.journal.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
