package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/model"
)

// itemColumns selects every item column except the image blob.
const itemColumns = `i.id, i.name, i.description, i.area, i.container, i.bin,
	i.quantity, i.cost, i.url, i.image_mime, i.created_at, i.updated_at`

type itemRow struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description sql.NullString  `db:"description"`
	Area        sql.NullString  `db:"area"`
	Container   sql.NullString  `db:"container"`
	Bin         sql.NullString  `db:"bin"`
	Quantity    int             `db:"quantity"`
	Cost        decimal.Decimal `db:"cost"`
	URL         sql.NullString  `db:"url"`
	ImageMime   sql.NullString  `db:"image_mime"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *itemRow) toItem() model.Item {
	return model.Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description.String,
		Area:        r.Area.String,
		Container:   r.Container.String,
		Bin:         r.Bin.String,
		Quantity:    r.Quantity,
		Cost:        r.Cost,
		URL:         r.URL.String,
		ImageMime:   r.ImageMime.String,
		Tags:        []model.Tag{},
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateItem inserts an item with its tags and indexes both.
func CreateItem(ctx context.Context, d *db.DB, in model.ItemInput) (*model.Item, error) {
	if err := normalizeInput(&in); err != nil {
		return nil, err
	}

	var id int64
	err := d.WriteTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO items (name, description, area, container, bin, quantity, cost, url)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			in.Name, nullString(in.Description), nullString(in.Area), nullString(in.Container),
			nullString(in.Bin), *in.Quantity, in.Cost, nullString(in.URL),
		)
		if err != nil {
			return fmt.Errorf("creating item: %w", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting item id: %w", err)
		}

		if err := reindexItem(ctx, tx, id); err != nil {
			return err
		}
		return insertTags(ctx, tx, id, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	return GetItem(ctx, d, id)
}

// GetItem returns an item with its tags, or a NotFoundError.
func GetItem(ctx context.Context, d *db.DB, id int64) (*model.Item, error) {
	var item *model.Item
	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		var row itemRow
		err := tx.GetContext(ctx, &row, `SELECT `+itemColumns+` FROM items i WHERE i.id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("item", strconv.FormatInt(id, 10))
		}
		if err != nil {
			return fmt.Errorf("getting item: %w", err)
		}

		items, err := hydrate(ctx, tx, []itemRow{row})
		if err != nil {
			return err
		}
		item = &items[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies a partial update and re-synchronizes the index.
// Tags are replaced only when p.Tags is non-nil.
func UpdateItem(ctx context.Context, d *db.DB, id int64, p model.ItemPatch) (*model.Item, error) {
	if err := normalizePatch(&p); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Description != nil {
		set("description", nullString(*p.Description))
	}
	if p.Area != nil {
		set("area", nullString(*p.Area))
	}
	if p.Container != nil {
		set("container", nullString(*p.Container))
	}
	if p.Bin != nil {
		set("bin", nullString(*p.Bin))
	}
	if p.Quantity != nil {
		set("quantity", *p.Quantity)
	}
	if p.Cost != nil {
		set("cost", *p.Cost)
	}
	if p.URL != nil {
		set("url", nullString(*p.URL))
	}
	args = append(args, id)

	err := d.WriteTx(ctx, func(tx *sqlx.Tx) error {
		if p.Area != nil || p.Container != nil || p.Bin != nil {
			if err := checkPatchedLocation(ctx, tx, id, p); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
		)
		if err != nil {
			return fmt.Errorf("updating item: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("updating item: %w", err)
		} else if n == 0 {
			return notFound("item", strconv.FormatInt(id, 10))
		}

		if err := reindexItem(ctx, tx, id); err != nil {
			return err
		}
		if p.Tags != nil {
			return replaceTags(ctx, tx, id, p.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetItem(ctx, d, id)
}

// checkPatchedLocation validates the location an item would have after p is
// applied to its stored row.
func checkPatchedLocation(ctx context.Context, tx *sqlx.Tx, id int64, p model.ItemPatch) error {
	var row struct {
		Area      sql.NullString `db:"area"`
		Container sql.NullString `db:"container"`
		Bin       sql.NullString `db:"bin"`
	}
	err := tx.GetContext(ctx, &row, `SELECT area, container, bin FROM items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("item", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return fmt.Errorf("reading item location: %w", err)
	}

	area, container, bin := row.Area.String, row.Container.String, row.Bin.String
	if p.Area != nil {
		area = *p.Area
	}
	if p.Container != nil {
		container = *p.Container
	}
	if p.Bin != nil {
		bin = *p.Bin
	}
	return validateHierarchy(area, container, bin)
}

// DeleteItem removes an item, its tags and their index entries.
func DeleteItem(ctx context.Context, d *db.DB, id int64) error {
	return d.WriteTx(ctx, func(tx *sqlx.Tx) error {
		if err := deleteTags(ctx, tx, id); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		} else if n == 0 {
			return notFound("item", strconv.FormatInt(id, 10))
		}

		return reindexItem(ctx, tx, id)
	})
}

// SetItemImage stores an item's photo.
func SetItemImage(ctx context.Context, d *db.DB, id int64, image []byte, mime string) error {
	return d.WriteTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			image, mime, id,
		)
		if err != nil {
			return fmt.Errorf("setting item image: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("setting item image: %w", err)
		} else if n == 0 {
			return notFound("item", strconv.FormatInt(id, 10))
		}
		return nil
	})
}

// GetItemImage returns an item's photo and MIME type. A nil slice means the
// item has no photo.
func GetItemImage(ctx context.Context, d *db.DB, id int64) ([]byte, string, error) {
	var row struct {
		Image []byte         `db:"image"`
		Mime  sql.NullString `db:"image_mime"`
	}
	err := d.GetContext(ctx, &row, `SELECT image, image_mime FROM items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", notFound("item", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return row.Image, row.Mime.String, nil
}

// selectItems runs an item query and returns the rows hydrated with tags.
func selectItems(ctx context.Context, tx *sqlx.Tx, query string, args ...any) ([]model.Item, error) {
	var rows []itemRow
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return hydrate(ctx, tx, rows)
}

// hydrate converts rows to items and attaches their tags.
func hydrate(ctx context.Context, q sqlx.QueryerContext, rows []itemRow) ([]model.Item, error) {
	items := make([]model.Item, len(rows))
	if len(rows) == 0 {
		return items, nil
	}

	ids := make([]int64, len(rows))
	for n := range rows {
		items[n] = rows[n].toItem()
		ids[n] = rows[n].ID
	}

	tags, err := tagsFor(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for n := range items {
		if t, ok := tags[items[n].ID]; ok {
			items[n].Tags = t
		}
	}
	return items, nil
}
