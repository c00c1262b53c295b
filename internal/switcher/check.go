package switcher

import (
	"bytes"
	"fmt"
	"sort"

	"efswitch/internal/fingerprint"
)

// CheckReport describes how far the index and the backup store have drifted apart.
type CheckReport struct {
	Stale      []AccountRecord // records whose backup folder is missing
	Mismatched []AccountRecord // records whose backed-up primary file no longer matches the fingerprint
	Orphans    []string        // backup folders no record refers to
}

// OK reports whether the index and the backup store agree.
func (r *CheckReport) OK() bool {
	return len(r.Stale) == 0 && len(r.Mismatched) == 0 && len(r.Orphans) == 0
}

// Check compares the index with the backup store. With verify set, the
// primary file of every backup is re-fingerprinted as well.
//
// Unlike ListAccounts, a malformed index is an error here: treating it as
// empty would report every backup folder as an orphan.
func (s *Service) Check(verify bool) (*CheckReport, error) {
	records, err := s.index.Load()
	if err != nil {
		return nil, err
	}
	keys, err := s.backups.Keys()
	if err != nil {
		return nil, IOFailure("check", "", fmt.Errorf("listing backup folders: %w", err))
	}

	report := &CheckReport{}
	known := make(map[string]bool, len(records))
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	for _, rec := range records {
		known[rec.StorageKey] = true
		if !present[rec.StorageKey] {
			report.Stale = append(report.Stale, rec)
			continue
		}
		if !verify {
			continue
		}
		fp, err := s.backupFingerprint(rec.StorageKey)
		if err != nil {
			return nil, IOFailure("check", rec.StorageKey, err)
		}
		if fp != rec.Fingerprint {
			report.Mismatched = append(report.Mismatched, rec)
		}
	}

	for _, k := range keys {
		if !known[k] {
			report.Orphans = append(report.Orphans, k)
		}
	}
	sort.Strings(report.Orphans)

	return report, nil
}

// PruneOrphans removes backup folders that no account refers to and returns
// their storage keys.
func (s *Service) PruneOrphans() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.Check(false)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, key := range report.Orphans {
		if err := s.backups.Remove(key); err != nil {
			return removed, IOFailure("prune", key, fmt.Errorf("removing orphan backup folder: %w", err))
		}
		s.logger.Info("orphan backup folder removed", "storage_key", key)
		removed = append(removed, key)
	}
	return removed, nil
}

func (s *Service) backupFingerprint(key string) (string, error) {
	has, err := s.backups.Has(key, PrimaryFile)
	if err != nil {
		return "", err
	}
	if !has {
		return fingerprint.Empty, nil
	}
	var buf bytes.Buffer
	if err := s.backups.Get(key, PrimaryFile, &buf); err != nil {
		return "", err
	}
	return fingerprint.Sum(&buf)
}
