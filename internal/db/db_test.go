package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
)

func TestDSNCarriesPragmas(t *testing.T) {
	got := dsn("inventory.db", DefaultOptions())
	if !strings.HasPrefix(got, "file:inventory.db?") {
		t.Errorf("expected file: prefix, got %q", got)
	}
	for _, want := range []string{"foreign_keys%281%29", "busy_timeout%285000%29", "journal_mode%28WAL%29"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected dsn to contain %q, got %q", want, got)
		}
	}
}

func TestForeignKeysEnabledOnEveryConnection(t *testing.T) {
	d := NewTestDB(t)
	ctx := context.Background()

	// Hold one connection busy so the next query is served by another.
	conn, err := d.Connx(ctx)
	if err != nil {
		t.Fatalf("Connx: %v", err)
	}
	defer conn.Close()

	var fk int
	if err := d.GetContext(ctx, &fk, `PRAGMA foreign_keys`); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	d := NewTestDB(t)
	if err := EnsureSchema(context.Background(), d); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestWriteTxRollsBackOnError(t *testing.T) {
	d := NewTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := d.WriteTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('Ghost')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int
	if err := d.GetContext(ctx, &count, `SELECT COUNT(*) FROM items`); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected rolled back insert, got %d rows", count)
	}
}

func TestStoredFTSVersionEmpty(t *testing.T) {
	d := NewTestDB(t)
	v, err := StoredFTSVersion(context.Background(), d)
	if err != nil {
		t.Fatalf("StoredFTSVersion: %v", err)
	}
	if v != "" {
		t.Errorf("expected empty version on fresh database, got %q", v)
	}
}
