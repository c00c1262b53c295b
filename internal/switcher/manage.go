package switcher

import (
	"fmt"
	"strings"
)

// minIDPrefix is the shortest ID prefix FindAccount accepts.
const minIDPrefix = 6

// DeleteAccount removes the account with the given id and its backup folder.
// If the folder cannot be removed the index is left unchanged. Deleting an
// unknown id is a no-op.
func (s *Service) DeleteAccount(id string) error {
	const op = "delete"

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadIndex()
	if err != nil {
		return err
	}

	pos := indexOf(records, id)
	if pos < 0 {
		s.logger.Debug("delete of unknown account ignored", "id", id)
		return nil
	}
	rec := records[pos]

	if err := s.backups.Remove(rec.StorageKey); err != nil {
		return IOFailure(op, rec.StorageKey, fmt.Errorf("removing backup folder: %w", err))
	}

	records = append(records[:pos], records[pos+1:]...)
	if err := s.index.Save(records); err != nil {
		return IOFailure(op, "", fmt.Errorf("saving account index: %w", err))
	}

	s.logger.Info("account deleted", "id", id, "storage_key", rec.StorageKey)
	return nil
}

// RenameAccount sets the display name of the account with the given id.
// Renaming an unknown id is a no-op.
func (s *Service) RenameAccount(id, label string) error {
	const op = "rename"

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadIndex()
	if err != nil {
		return err
	}

	pos := indexOf(records, id)
	if pos < 0 {
		s.logger.Debug("rename of unknown account ignored", "id", id)
		return nil
	}

	old := records[pos].DisplayName
	records[pos].DisplayName = label
	if err := s.index.Save(records); err != nil {
		return IOFailure(op, "", fmt.Errorf("saving account index: %w", err))
	}

	s.logger.Info("account renamed", "id", id, "from", old, "to", label)
	return nil
}

// FindAccount resolves a user-supplied selector to a saved account.
// Tried in order: exact ID, exact storage key, unique ID prefix of at least
// six characters, unique display name.
func (s *Service) FindAccount(selector string) (*AccountRecord, error) {
	records, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, NotFound("find", "", "empty account selector")
	}

	for i := range records {
		if records[i].ID == selector || records[i].StorageKey == selector {
			return &records[i], nil
		}
	}

	if len(selector) >= minIDPrefix {
		if rec, err := uniqueMatch(records, selector, func(r AccountRecord) bool {
			return strings.HasPrefix(r.ID, selector)
		}); rec != nil || err != nil {
			return rec, err
		}
	}

	if rec, err := uniqueMatch(records, selector, func(r AccountRecord) bool {
		return r.DisplayName == selector
	}); rec != nil || err != nil {
		return rec, err
	}

	return nil, NotFound("find", "", fmt.Sprintf("no saved account matches %q", selector))
}

func uniqueMatch(records []AccountRecord, selector string, match func(AccountRecord) bool) (*AccountRecord, error) {
	var found *AccountRecord
	for i := range records {
		if !match(records[i]) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousSelector, selector)
		}
		found = &records[i]
	}
	return found, nil
}
