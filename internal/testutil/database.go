package testutil

import (
	"testing"

	"efswitch/internal/database"
)

// NewTestJournal creates an in-memory SQLite journal with the schema applied.
// The journal is automatically closed when the test completes.
func NewTestJournal(t *testing.T) *database.SQLiteJournal {
	t.Helper()

	j, err := database.NewSQLiteJournal(":memory:", FixedClock())
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}

	t.Cleanup(func() {
		j.Close()
	})

	return j
}
