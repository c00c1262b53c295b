package switcher

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"efswitch/internal/fingerprint"
)

// Deps are the collaborators a Service is built from. Logger, Clock, IDs,
// Keys and ProcessName fall back to production defaults when left zero.
type Deps struct {
	Index    IndexStore
	Backups  BackupStore
	Files    FilesystemManager
	Resolver DirResolver
	Guard    ProcessGuard
	Launcher Launcher

	Logger Logger
	Clock  Clock
	IDs    IDGenerator // account IDs
	Keys   IDGenerator // storage keys

	ProcessName string
}

// Service owns the account index and the backup store and implements the
// capture/switch state machine on top of them.
//
// Mutating operations are serialized by an internal mutex. Nothing protects
// the index or the live directory from a second process.
type Service struct {
	mu sync.Mutex

	index    IndexStore
	backups  BackupStore
	files    FilesystemManager
	resolver DirResolver
	guard    ProcessGuard
	launcher Launcher
	logger   Logger
	clock    Clock
	ids      IDGenerator
	keys     IDGenerator

	processName string
}

// NewService creates a Service from deps.
func NewService(deps Deps) *Service {
	s := &Service{
		index:       deps.Index,
		backups:     deps.Backups,
		files:       deps.Files,
		resolver:    deps.Resolver,
		guard:       deps.Guard,
		launcher:    deps.Launcher,
		logger:      deps.Logger,
		clock:       deps.Clock,
		ids:         deps.IDs,
		keys:        deps.Keys,
		processName: deps.ProcessName,
	}
	if s.logger == nil {
		s.logger = NewNopLogger()
	}
	if s.clock == nil {
		s.clock = RealClock{}
	}
	if s.ids == nil {
		s.ids = NewULIDGenerator()
	}
	if s.keys == nil {
		s.keys = StorageKeyGenerator{}
	}
	if s.processName == "" {
		s.processName = DefaultProcessName
	}
	return s
}

// ListAccounts returns the saved accounts, newest first.
// An index document that cannot be parsed is treated as empty.
func (s *Service) ListAccounts() ([]AccountRecord, error) {
	return s.loadIndex()
}

// CaptureAccount saves the game's current session as a new account labelled label.
//
// The credential files are copied into a fresh backup folder first and the
// primary file is fingerprinted as it is copied. If a saved account already
// has that fingerprint the folder is removed again and a KindDuplicateAccount
// error is returned. The index is only written once the capture is known to
// be new.
func (s *Service) CaptureAccount(label string) (*AccountRecord, error) {
	const op = "capture"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureGameStopped(op); err != nil {
		return nil, err
	}

	liveDir, err := s.resolver.Resolve()
	if err != nil {
		return nil, err
	}

	key := s.keys.New()
	if err := s.backups.Create(key); err != nil {
		return nil, IOFailure(op, key, fmt.Errorf("creating backup folder: %w", err))
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := s.backups.Remove(key); err != nil {
			s.logger.Warn("failed to remove backup folder after aborted capture", "storage_key", key, "error", err)
		}
	}()

	fp, err := s.copyToBackup(op, liveDir, key)
	if err != nil {
		return nil, err
	}

	records, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	if existing := MatchFingerprint(records, fp); existing != nil {
		s.logger.Info("capture rejected as duplicate", "existing_id", existing.ID, "fingerprint", fp)
		return nil, duplicateAccount(op, *existing)
	}

	rec := AccountRecord{
		ID:             s.ids.New(),
		StorageKey:     key,
		DisplayName:    label,
		Fingerprint:    fp,
		LastBackupTime: s.clock.Now().Local().Format(TimeFormat),
	}
	records = append([]AccountRecord{rec}, records...)

	if err := s.index.Save(records); err != nil {
		return nil, IOFailure(op, "", fmt.Errorf("saving account index: %w", err))
	}
	committed = true

	s.logger.Info("account captured", "id", rec.ID, "storage_key", key, "name", label)
	return &rec, nil
}

// copyToBackup copies each credential file present in liveDir into the
// backup folder key and returns the fingerprint of the primary file as copied.
func (s *Service) copyToBackup(op, liveDir, key string) (string, error) {
	fp := fingerprint.Empty

	for _, name := range CredentialFiles {
		src := filepath.Join(liveDir, name)

		exists, err := s.files.Exists(src)
		if err != nil {
			return "", IOFailure(op, src, err)
		}
		if !exists {
			s.logger.Debug("credential file absent, skipping", "path", src)
			continue
		}

		r, err := s.files.Open(src)
		if err != nil {
			return "", IOFailure(op, src, err)
		}

		var body io.Reader = r
		var digest *fingerprint.Digest
		if name == PrimaryFile {
			digest = fingerprint.New()
			body = io.TeeReader(r, digest)
		}

		err = s.backups.Put(key, name, body)
		r.Close()
		if err != nil {
			return "", IOFailure(op, src, fmt.Errorf("copying to backup: %w", err))
		}

		if digest != nil {
			fp = digest.String()
		}
	}

	return fp, nil
}

// SwitchAccount makes the account stored under storageKey the live session.
//
// The live credential files are deleted and replaced by the backed-up ones.
// The session being replaced is not saved. If the backup folder is missing
// a KindBackupMissing error is returned and the live directory is untouched.
func (s *Service) SwitchAccount(storageKey string) error {
	const op = "switch"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureGameStopped(op); err != nil {
		return err
	}

	liveDir, err := s.resolver.Resolve()
	if err != nil {
		return err
	}

	exists, err := s.backups.Exists(storageKey)
	if err != nil {
		return IOFailure(op, storageKey, err)
	}
	if !exists {
		return backupMissing(op, storageKey)
	}

	// Read the backup fully before touching the live directory so a failing
	// read (or a wrong passphrase) cannot leave the game without credentials.
	restored := make(map[string][]byte, len(CredentialFiles))
	for _, name := range CredentialFiles {
		has, err := s.backups.Has(storageKey, name)
		if err != nil {
			return IOFailure(op, storageKey, err)
		}
		if !has {
			continue
		}
		var buf bytes.Buffer
		if err := s.backups.Get(storageKey, name, &buf); err != nil {
			return IOFailure(op, filepath.Join(storageKey, name), fmt.Errorf("reading backup: %w", err))
		}
		restored[name] = buf.Bytes()
	}

	for _, name := range CredentialFiles {
		dst := filepath.Join(liveDir, name)
		exists, err := s.files.Exists(dst)
		if err != nil {
			return IOFailure(op, dst, err)
		}
		if !exists {
			continue
		}
		if err := s.files.Remove(dst); err != nil {
			return IOFailure(op, dst, fmt.Errorf("clearing live credentials: %w", err))
		}
	}

	for _, name := range CredentialFiles {
		data, ok := restored[name]
		if !ok {
			continue
		}
		dst := filepath.Join(liveDir, name)
		if err := s.files.WriteFile(dst, bytes.NewReader(data)); err != nil {
			s.logger.Error("live directory left without credentials; retry the switch", "path", dst, "error", err)
			return IOFailure(op, dst, fmt.Errorf("restoring credentials: %w", err))
		}
	}

	s.logger.Info("account switched", "storage_key", storageKey, "files", len(restored))
	return nil
}

// CurrentFingerprint returns the fingerprint of the live primary credential
// file, or the empty string if there is none.
func (s *Service) CurrentFingerprint() (string, error) {
	liveDir, err := s.resolver.Resolve()
	if err != nil {
		return "", err
	}

	path := filepath.Join(liveDir, PrimaryFile)
	fp, err := s.files.Fingerprint(path)
	if err != nil {
		return "", IOFailure("fingerprint", path, err)
	}
	return fp, nil
}

// LaunchGame starts the game executable at exePath.
func (s *Service) LaunchGame(exePath string) error {
	if exePath == "" {
		return NotFound("launch", "", "no game executable configured")
	}
	if err := s.launcher.Launch(exePath); err != nil {
		return err
	}
	s.logger.Info("game launch requested", "path", exePath)
	return nil
}

func (s *Service) ensureGameStopped(op string) error {
	running, err := s.guard.IsRunning(s.processName)
	if err != nil {
		return IOFailure(op, "", fmt.Errorf("scanning process table: %w", err))
	}
	if running {
		s.logger.Warn("refusing to touch credential files while the game runs", "op", op, "process", s.processName)
		return gameRunning(op, s.processName)
	}
	return nil
}

// loadIndex loads the index, recovering from a malformed document by
// treating it as empty.
func (s *Service) loadIndex() ([]AccountRecord, error) {
	records, err := s.index.Load()
	if err != nil {
		if IsKind(err, KindParseFailure) {
			s.logger.Warn("account index is malformed, treating it as empty", "error", err)
			return []AccountRecord{}, nil
		}
		return nil, IOFailure("load index", "", err)
	}
	return records, nil
}
