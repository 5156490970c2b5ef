package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/erazemk/binventory/internal/db"
)

// The full-text index is kept in step with items and items_tags by the
// write paths in this package: every mutation calls reindexItem/reindexTag
// inside the same transaction before committing.

// reindexItem replaces the items_fts entry for id with the item's current
// text. If the item no longer exists the entry is only removed.
func reindexItem(ctx context.Context, tx sqlx.ExecerContext, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM items_fts WHERE rowid = ?`, id); err != nil {
		return fmt.Errorf("removing item %d from index: %w", id, err)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO items_fts (rowid, name, description, area, container, bin)
		 SELECT id, name, description, area, container, bin FROM items WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("indexing item %d: %w", id, err)
	}
	return nil
}

// reindexTag is the items_tags counterpart of reindexItem, keyed by tag row id.
func reindexTag(ctx context.Context, tx sqlx.ExecerContext, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM items_tags_fts WHERE rowid = ?`, id); err != nil {
		return fmt.Errorf("removing tag %d from index: %w", id, err)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO items_tags_fts (rowid, tag) SELECT id, tag FROM items_tags WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("indexing tag %d: %w", id, err)
	}
	return nil
}

// IndexStatus compares the item and tag tables with their index tables.
type IndexStatus struct {
	Items        int `json:"items" db:"items"`
	IndexedItems int `json:"indexed_items" db:"indexed_items"`
	MissingItems int `json:"missing_items" db:"missing_items"`
	StaleItems   int `json:"stale_items" db:"stale_items"`
	Tags         int `json:"tags" db:"tags"`
	IndexedTags  int `json:"indexed_tags" db:"indexed_tags"`
	MissingTags  int `json:"missing_tags" db:"missing_tags"`
	StaleTags    int `json:"stale_tags" db:"stale_tags"`
}

// InSync reports whether the index reflects the tables exactly.
func (s IndexStatus) InSync() bool {
	return s.Items == s.IndexedItems && s.Tags == s.IndexedTags &&
		s.MissingItems == 0 && s.StaleItems == 0 &&
		s.MissingTags == 0 && s.StaleTags == 0
}

// VerifyIndex reports how far the full-text index has drifted from the tables.
func VerifyIndex(ctx context.Context, d *db.DB) (IndexStatus, error) {
	var status IndexStatus
	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		return indexStatus(ctx, tx, &status)
	})
	return status, err
}

func indexStatus(ctx context.Context, q sqlx.QueryerContext, status *IndexStatus) error {
	err := sqlx.GetContext(ctx, q, status, `
		SELECT
		  (SELECT COUNT(*) FROM items) AS items,
		  (SELECT COUNT(*) FROM items_fts) AS indexed_items,
		  (SELECT COUNT(*) FROM items WHERE id NOT IN (SELECT rowid FROM items_fts)) AS missing_items,
		  (SELECT COUNT(*) FROM items i JOIN items_fts f ON f.rowid = i.id
		    WHERE f.name IS NOT i.name
		       OR COALESCE(f.description, '') IS NOT COALESCE(i.description, '')
		       OR COALESCE(f.area, '') IS NOT COALESCE(i.area, '')
		       OR COALESCE(f.container, '') IS NOT COALESCE(i.container, '')
		       OR COALESCE(f.bin, '') IS NOT COALESCE(i.bin, '')) AS stale_items,
		  (SELECT COUNT(*) FROM items_tags) AS tags,
		  (SELECT COUNT(*) FROM items_tags_fts) AS indexed_tags,
		  (SELECT COUNT(*) FROM items_tags WHERE id NOT IN (SELECT rowid FROM items_tags_fts)) AS missing_tags,
		  (SELECT COUNT(*) FROM items_tags t JOIN items_tags_fts f ON f.rowid = t.id
		    WHERE f.tag IS NOT t.tag) AS stale_tags`,
	)
	if err != nil {
		return fmt.Errorf("checking index: %w", err)
	}
	return nil
}

// RebuildIndex drops the full-text tables, recreates them from the current
// definition and repopulates them from items and items_tags. It is
// idempotent and safe on an empty database.
func RebuildIndex(ctx context.Context, d *db.DB) (IndexStatus, error) {
	var status IndexStatus
	err := d.WriteTx(ctx, func(tx *sqlx.Tx) error {
		stmts := []string{
			`DROP TABLE IF EXISTS items_fts`,
			`DROP TABLE IF EXISTS items_tags_fts`,
			db.FTSSchema,
			`INSERT INTO items_fts (rowid, name, description, area, container, bin)
			 SELECT id, name, description, area, container, bin FROM items`,
			`INSERT INTO items_tags_fts (rowid, tag) SELECT id, tag FROM items_tags`,
		}
		for _, s := range stmts {
			if _, err := tx.ExecContext(ctx, s); err != nil {
				return fmt.Errorf("rebuilding index: %w", err)
			}
		}
		if err := setSetting(ctx, tx, "fts_version", db.FTSVersion); err != nil {
			return err
		}
		return indexStatus(ctx, tx, &status)
	})
	return status, err
}

// Migrate ensures the schema exists and rebuilds the full-text index when
// its recorded definition version differs from the current one.
func Migrate(ctx context.Context, d *db.DB) (rebuilt bool, err error) {
	if err := db.EnsureSchema(ctx, d); err != nil {
		return false, err
	}

	version, err := db.StoredFTSVersion(ctx, d)
	if err != nil {
		return false, err
	}
	if version == db.FTSVersion {
		return false, nil
	}

	if _, err := RebuildIndex(ctx, d); err != nil {
		return false, err
	}
	return true, nil
}

// asQuerySyntaxError converts an engine error raised by a MATCH into a
// QuerySyntaxError. Other errors are returned unchanged.
func asQuerySyntaxError(term string, err error) error {
	var serr *sqlite.Error
	if errors.As(err, &serr) && serr.Code()&0xff == sqlite3.SQLITE_ERROR {
		return &QuerySyntaxError{Term: term, Err: err}
	}
	return err
}
