// Package index persists the account index.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"efswitch/internal/switcher"
)

// JSONIndex stores the index as a JSON array in a single file.
//
//	[
//	  {"id": "...", "storageKey": "...", "displayName": "...",
//	   "fingerprint": "...", "lastBackupTime": "2006-01-02 15:04:05"}
//	]
type JSONIndex struct {
	path string
}

// NewJSONIndex returns an index stored at path. The file is created on first save.
func NewJSONIndex(path string) *JSONIndex {
	return &JSONIndex{path: path}
}

// Path returns the index file location.
func (i *JSONIndex) Path() string {
	return i.path
}

// recordDoc is the on-disk shape of a record. Besides the current field
// names it accepts folderName and fingerPrint, written by the first release
// of the account switcher, so older index files keep loading.
type recordDoc struct {
	ID             string `json:"id"`
	StorageKey     string `json:"storageKey"`
	DisplayName    string `json:"displayName"`
	Fingerprint    string `json:"fingerprint"`
	LastBackupTime string `json:"lastBackupTime"`

	FolderName  string `json:"folderName,omitempty"`
	FingerPrint string `json:"fingerPrint,omitempty"`
}

func (d recordDoc) record() switcher.AccountRecord {
	rec := switcher.AccountRecord{
		ID:             d.ID,
		StorageKey:     d.StorageKey,
		DisplayName:    d.DisplayName,
		Fingerprint:    d.Fingerprint,
		LastBackupTime: d.LastBackupTime,
	}
	if rec.StorageKey == "" {
		rec.StorageKey = d.FolderName
	}
	if rec.Fingerprint == "" {
		rec.Fingerprint = d.FingerPrint
	}
	return rec
}

// Load reads the index file. A missing file is an empty index.
func (i *JSONIndex) Load() ([]switcher.AccountRecord, error) {
	data, err := os.ReadFile(i.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []switcher.AccountRecord{}, nil
		}
		return nil, switcher.IOFailure("load index", i.path, err)
	}
	return Decode(data, i.path)
}

// Decode parses an index document. source names it in error messages.
func Decode(data []byte, source string) ([]switcher.AccountRecord, error) {
	var docs []recordDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, switcher.ParseFailure(source, err)
	}

	records := make([]switcher.AccountRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.record())
	}
	return records, nil
}

// Encode renders records as an indented JSON document.
func Encode(records []switcher.AccountRecord) ([]byte, error) {
	if records == nil {
		records = []switcher.AccountRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding account index: %w", err)
	}
	return append(data, '\n'), nil
}

// Save replaces the index file atomically (temp file + rename).
func (i *JSONIndex) Save(records []switcher.AccountRecord) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(i.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return switcher.IOFailure("save index", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".accounts-*.tmp")
	if err != nil {
		return switcher.IOFailure("save index", dir, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return switcher.IOFailure("save index", tmpPath, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return switcher.IOFailure("save index", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return switcher.IOFailure("save index", tmpPath, err)
	}
	if err := os.Rename(tmpPath, i.path); err != nil {
		return switcher.IOFailure("save index", i.path, err)
	}

	success = true
	return nil
}

var _ switcher.IndexStore = (*JSONIndex)(nil)
