// Package migrations applies the journal schema from embedded SQL files.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// ErrNoVersion is returned by CheckDBMigrationStatus for a database that has
// never been migrated.
var ErrNoVersion = errors.New("database has no schema version (needs migration)")

// Latest returns the highest schema version shipped with this binary.
func Latest() (uint, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("failed to read migration files: %w", err)
	}
	defer src.Close()
	return latestVersion(src)
}

// CheckDBMigrationStatus verifies that the database schema is at Latest.
func CheckDBMigrationStatus(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	// m is not closed: that would close db, which belongs to the caller.

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return ErrNoVersion
		}
		return fmt.Errorf("failed to get database version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d (migration failed previously)", version)
	}

	latest, err := Latest()
	if err != nil {
		return err
	}
	switch {
	case version < latest:
		return fmt.Errorf("database is at version %d but latest is %d", version, latest)
	case version > latest:
		return fmt.Errorf("database version %d is ahead of binary version %d (binary needs update)", version, latest)
	}
	return nil
}

// MigrateUp runs all pending migrations. An up-to-date database is not an error.
func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	dbDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", dbDriver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// latestVersion walks the source until Next reports no further migration.
func latestVersion(src source.Driver) (uint, error) {
	version, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(version)
		if err != nil {
			return version, nil
		}
		version = next
	}
}
