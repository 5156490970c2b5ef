package db

import (
	"context"
	"path/filepath"
	"testing"
)

// NewTestDB creates a fresh file-backed SQLite database in a temporary
// directory with the schema applied. A file is used instead of :memory: so
// that every pooled connection sees the same database.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	d, err := Open(filepath.Join(t.TempDir(), "test.db"), DefaultOptions())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := EnsureSchema(context.Background(), d); err != nil {
		d.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { d.Close() })

	return d
}
