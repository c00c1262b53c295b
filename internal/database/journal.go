// Package database keeps a journal of the mutating commands efswitch has run.
package database

import (
	"database/sql"
	"time"
)

// Operation statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation is one journal row.
type Operation struct {
	ID         int64
	Operation  string // e.g. "CaptureAccount"
	Parameters string
	StartedAt  time.Time
	FinishedAt sql.NullTime // unset while running, or if the process died
	Status     string
}

// Journal records mutating operations.
type Journal interface {
	Start(operation, parameters string) (int64, error)
	Finish(id int64, status string) error
	List(limit int) ([]*Operation, error)
	Close() error
}

// NopJournal discards everything. Used when the journal is disabled.
type NopJournal struct{}

func (NopJournal) Start(string, string) (int64, error) { return 0, nil }
func (NopJournal) Finish(int64, string) error          { return nil }
func (NopJournal) List(int) ([]*Operation, error)      { return nil, nil }
func (NopJournal) Close() error                        { return nil }

var _ Journal = NopJournal{}
