package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"efswitch/internal/database/migrations"
	"efswitch/internal/switcher"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db    *sql.DB
	path  string
	clock switcher.Clock
}

// NewSQLiteJournal opens the journal at path, creating the file and applying
// pending migrations as needed. path can be ":memory:" for a throwaway journal.
// A nil clock uses the wall clock.
func NewSQLiteJournal(path string, clock switcher.Clock) (*SQLiteJournal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema out of date: %w", err)
	}

	if clock == nil {
		clock = switcher.RealClock{}
	}
	return &SQLiteJournal{db: db, path: path, clock: clock}, nil
}

// OpenConnection opens and configures a SQLite connection.
// The pool is limited to one connection: the journal is written by a single
// CLI process, and ":memory:" databases are private to their connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Start records the beginning of an operation and returns its ID.
func (j *SQLiteJournal) Start(operation, parameters string) (int64, error) {
	res, err := j.db.ExecContext(context.Background(),
		`INSERT INTO operations (operation, parameters, started_at, status) VALUES (?, ?, ?, ?)`,
		operation, parameters, j.clock.Now().UTC(), StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading operation id: %w", err)
	}
	return id, nil
}

// Finish stamps the operation with its end time and final status.
func (j *SQLiteJournal) Finish(id int64, status string) error {
	res, err := j.db.ExecContext(context.Background(),
		`UPDATE operations SET finished_at = ?, status = ? WHERE id = ?`,
		j.clock.Now().UTC(), status, id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing operation: no operation with id %d", id)
	}
	return nil
}

// List returns up to limit operations, newest first. A limit of zero or less
// returns all of them.
func (j *SQLiteJournal) List(limit int) ([]*Operation, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := j.db.QueryContext(context.Background(),
		`SELECT id, operation, parameters, started_at, finished_at, status
		   FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		op := &Operation{}
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.StartedAt, &op.FinishedAt, &op.Status); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Path returns the database file path (or ":memory:").
func (j *SQLiteJournal) Path() string {
	return j.path
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteJournal implements Journal
var _ Journal = (*SQLiteJournal)(nil)
