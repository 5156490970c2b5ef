package db

import (
	"context"
	"fmt"
)

// schema is the full database schema, excluding the full-text index tables.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT,
    area        TEXT,
    container   TEXT,
    bin         TEXT,
    quantity    INTEGER NOT NULL DEFAULT 1,
    cost        TEXT NOT NULL DEFAULT '0',
    url         TEXT,
    image       BLOB,
    image_mime  TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

DROP INDEX IF EXISTS idx_items_location;
CREATE INDEX IF NOT EXISTS idx_items_location_fold
    ON items(area COLLATE FOLD, container COLLATE FOLD, bin COLLATE FOLD);

CREATE TABLE IF NOT EXISTS items_tags (
    id      INTEGER PRIMARY KEY,
    item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    tag     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_tags_item ON items_tags(item_id);
CREATE INDEX IF NOT EXISTS idx_items_tags_tag ON items_tags(tag);

CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// FTSVersion identifies the current full-text index definition. Bump it
// whenever FTSSchema changes so Migrate rebuilds existing databases.
const FTSVersion = "2"

// FTSSchema creates the full-text index tables. They keep their own copy of
// the indexed text; rowid is items.id and items_tags.id respectively.
const FTSSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
    name, description, area, container, bin,
    tokenize='porter unicode61'
);

CREATE VIRTUAL TABLE IF NOT EXISTS items_tags_fts USING fts5(
    tag,
    tokenize='porter unicode61'
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(ctx context.Context, d *DB) error {
	if _, err := d.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := d.ExecContext(ctx, FTSSchema); err != nil {
		return fmt.Errorf("creating full-text index: %w", err)
	}
	return nil
}

// StoredFTSVersion returns the index definition version recorded in the
// database, or "" if none was recorded yet.
func StoredFTSVersion(ctx context.Context, d *DB) (string, error) {
	var version []string
	err := d.SelectContext(ctx, &version, `SELECT value FROM settings WHERE key = 'fts_version'`)
	if err != nil {
		return "", fmt.Errorf("reading fts version: %w", err)
	}
	if len(version) == 0 {
		return "", nil
	}
	return version[0], nil
}
