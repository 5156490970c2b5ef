package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/model"
)

// insertTags adds tag rows for an item and indexes each one.
func insertTags(ctx context.Context, tx *sqlx.Tx, itemID int64, tags []string) error {
	for _, t := range tags {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO items_tags (item_id, tag) VALUES (?, ?)`, itemID, t,
		)
		if err != nil {
			return fmt.Errorf("adding tag: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting tag id: %w", err)
		}
		if err := reindexTag(ctx, tx, id); err != nil {
			return err
		}
	}
	return nil
}

// deleteTags removes all tag rows of an item and their index entries.
func deleteTags(ctx context.Context, tx *sqlx.Tx, itemID int64) error {
	var ids []int64
	if err := tx.SelectContext(ctx, &ids, `SELECT id FROM items_tags WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("listing tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM items_tags WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("deleting tags: %w", err)
	}
	for _, id := range ids {
		if err := reindexTag(ctx, tx, id); err != nil {
			return err
		}
	}
	return nil
}

// replaceTags swaps an item's tag set for tags.
func replaceTags(ctx context.Context, tx *sqlx.Tx, itemID int64, tags []string) error {
	if err := deleteTags(ctx, tx, itemID); err != nil {
		return err
	}
	return insertTags(ctx, tx, itemID, tags)
}

// tagBatchSize bounds the ids bound into one tag query, keeping large
// locations under SQLite's host parameter limit.
var tagBatchSize = 500

// tagsFor loads the tags of the given items, keyed by item id.
func tagsFor(ctx context.Context, q sqlx.QueryerContext, itemIDs []int64) (map[int64][]model.Tag, error) {
	tags := make(map[int64][]model.Tag, len(itemIDs))
	for batch := range slices.Chunk(itemIDs, tagBatchSize) {
		query, args, err := sqlx.In(
			`SELECT id, item_id, tag FROM items_tags WHERE item_id IN (?) ORDER BY id`, batch,
		)
		if err != nil {
			return nil, fmt.Errorf("building tag query: %w", err)
		}

		var rows []struct {
			ID     int64  `db:"id"`
			ItemID int64  `db:"item_id"`
			Tag    string `db:"tag"`
		}
		if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("loading tags: %w", err)
		}
		for _, r := range rows {
			tags[r.ItemID] = append(tags[r.ItemID], model.Tag{ID: r.ID, ItemID: r.ItemID, Tag: r.Tag})
		}
	}
	return tags, nil
}

// ListTags returns every distinct tag, sorted.
func ListTags(ctx context.Context, d *db.DB) ([]string, error) {
	tags := []string{}
	if err := d.SelectContext(ctx, &tags, `SELECT DISTINCT tag FROM items_tags ORDER BY tag`); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// GetTag returns the browse view of a tag. Tag names match exactly.
// Each location list is capped at preview entries; preview <= 0 means no cap.
func GetTag(ctx context.Context, d *db.DB, name string, preview int) (*model.TagDetail, error) {
	detail := &model.TagDetail{Name: name}
	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		const tagged = `i.id IN (SELECT item_id FROM items_tags WHERE tag = ?)`

		if err := summarize(ctx, tx, tagged, []any{name}, &detail.Summary); err != nil {
			return err
		}
		if detail.ItemCount == 0 {
			return notFound("tag", name)
		}

		var err error
		for _, l := range []struct {
			column string
			dest   *[]string
		}{
			{"area", &detail.Areas},
			{"container", &detail.Containers},
			{"bin", &detail.Bins},
		} {
			*l.dest, err = distinctValues(ctx, tx, l.column, tagged, []any{name}, preview)
			if err != nil {
				return err
			}
		}

		detail.Items, err = selectItems(ctx, tx,
			`SELECT `+itemColumns+` FROM items i WHERE `+tagged+` ORDER BY i.name COLLATE FOLD, i.id`, name,
		)
		if err != nil {
			return fmt.Errorf("listing tagged items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}
