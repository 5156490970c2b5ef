package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/model"
)

// Location is a path in the area > container > bin hierarchy. Components
// compare case-insensitively. An empty Area is inferred on lookup.
type Location struct {
	Area      string
	Container string
	Bin       string
}

// String joins the set components with "/".
func (l Location) String() string {
	parts := []string{}
	for _, p := range []string{l.Area, l.Container, l.Bin} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

func (l Location) kind() string {
	switch {
	case l.Bin != "":
		return "bin"
	case l.Container != "":
		return "container"
	default:
		return "area"
	}
}

func (l Location) validate() error {
	if l.Area == "" && l.Container == "" && l.Bin == "" {
		return &ValidationError{Field: "area", Message: "required"}
	}
	return nil
}

// where returns the condition selecting items under l.
func (l Location) where() (string, []any) {
	var conds []string
	var args []any
	for _, c := range []struct {
		column string
		value  string
	}{
		{"area", l.Area},
		{"container", l.Container},
		{"bin", l.Bin},
	} {
		if c.value != "" {
			conds = append(conds, "i."+c.column+" = ? COLLATE FOLD")
			args = append(args, c.value)
		}
	}
	return strings.Join(conds, " AND "), args
}

// childColumn is the next finer location column, or "" for bins.
func (l Location) childColumn() string {
	switch l.kind() {
	case "area":
		return "container"
	case "container":
		return "bin"
	default:
		return ""
	}
}

func (l Location) order() string {
	switch l.kind() {
	case "area":
		return "i.container COLLATE FOLD, i.bin COLLATE FOLD, i.name COLLATE FOLD, i.id"
	case "container":
		return "i.bin COLLATE FOLD, i.name COLLATE FOLD, i.id"
	default:
		return "i.name COLLATE FOLD, i.id"
	}
}

// resolve returns l spelled as stored on the lowest-id item under it, with
// omitted parent components filled in. When several areas share a
// container or bin name, the parents of that item win.
func resolve(ctx context.Context, q sqlx.QueryerContext, l Location) (Location, error) {
	if err := l.validate(); err != nil {
		return Location{}, err
	}

	where, args := l.where()
	where += " AND i.area IS NOT NULL"
	if l.Bin != "" {
		where += " AND i.container IS NOT NULL"
	}
	var row struct {
		Area      sql.NullString `db:"area"`
		Container sql.NullString `db:"container"`
		Bin       sql.NullString `db:"bin"`
	}
	err := sqlx.GetContext(ctx, q, &row,
		`SELECT i.area, i.container, i.bin FROM items i
		 WHERE `+where+` ORDER BY i.id LIMIT 1`, args...,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Location{}, notFound(l.kind(), l.String())
	}
	if err != nil {
		return Location{}, fmt.Errorf("resolving %s: %w", l.kind(), err)
	}

	resolved := Location{Area: row.Area.String}
	if l.Container != "" || l.Bin != "" {
		resolved.Container = row.Container.String
	}
	if l.Bin != "" {
		resolved.Bin = row.Bin.String
	}
	return resolved, nil
}

// summarize counts the items matching where and totals their quantity and
// cost.
func summarize(ctx context.Context, q sqlx.QueryerContext, where string, args []any, s *model.Summary) error {
	var rows []struct {
		Quantity int             `db:"quantity"`
		Cost     decimal.Decimal `db:"cost"`
	}
	if err := sqlx.SelectContext(ctx, q, &rows, `SELECT i.quantity, i.cost FROM items i WHERE `+where, args...); err != nil {
		return fmt.Errorf("summarizing items: %w", err)
	}

	*s = model.Summary{ItemCount: len(rows)}
	for _, r := range rows {
		s.TotalQuantity += r.Quantity
		s.TotalCost = s.TotalCost.Add(r.Cost.Mul(decimal.NewFromInt(int64(r.Quantity))))
	}
	return nil
}

// distinctValues lists the non-empty values of column among items matching
// where, grouped and sorted case-insensitively. limit <= 0 means no cap.
func distinctValues(ctx context.Context, q sqlx.QueryerContext, column, where string, args []any, limit int) ([]string, error) {
	if limit <= 0 {
		limit = -1
	}
	values := []string{}
	err := sqlx.SelectContext(ctx, q, &values,
		`SELECT MIN(i.`+column+`) FROM items i
		 WHERE (`+where+`) AND i.`+column+` IS NOT NULL
		 GROUP BY i.`+column+` COLLATE FOLD
		 ORDER BY MIN(i.`+column+`) COLLATE FOLD
		 LIMIT ?`, append(args[:len(args):len(args)], limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s values: %w", column, err)
	}
	return values, nil
}

func locationExists(ctx context.Context, q sqlx.QueryerContext, l Location) (bool, error) {
	_, err := resolve(ctx, q, l)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func locationSummary(ctx context.Context, q sqlx.QueryerContext, l Location) (model.Summary, error) {
	var s model.Summary
	if err := l.validate(); err != nil {
		return s, err
	}
	where, args := l.where()
	err := summarize(ctx, q, where, args, &s)
	return s, err
}

func locationChildren(ctx context.Context, q sqlx.QueryerContext, l Location, limit int) ([]model.LocationSummary, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	children := []model.LocationSummary{}
	column := l.childColumn()
	if column == "" {
		return children, nil
	}

	where, args := l.where()
	names, err := distinctValues(ctx, q, column, where, args, limit)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		child := model.LocationSummary{Name: name}
		err := summarize(ctx, q,
			where+" AND i."+column+" = ? COLLATE FOLD",
			append(args[:len(args):len(args)], name), &child.Summary,
		)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func locationItems(ctx context.Context, tx *sqlx.Tx, l Location) ([]model.Item, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	where, args := l.where()
	items, err := selectItems(ctx, tx,
		`SELECT `+itemColumns+` FROM items i WHERE `+where+` ORDER BY `+l.order(), args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items in %s: %w", l.kind(), err)
	}
	return items, nil
}

// LocationExists reports whether any item is stored under l.
func LocationExists(ctx context.Context, d *db.DB, l Location) (bool, error) {
	return locationExists(ctx, d, l)
}

// LocationSummary counts the items under l and totals their quantity and cost.
func LocationSummary(ctx context.Context, d *db.DB, l Location) (model.Summary, error) {
	return locationSummary(ctx, d, l)
}

// LocationChildren lists the next finer locations under l with their own
// summaries, sorted case-insensitively. limit <= 0 returns all of them.
func LocationChildren(ctx context.Context, d *db.DB, l Location, limit int) ([]model.LocationSummary, error) {
	var children []model.LocationSummary
	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		children, err = locationChildren(ctx, tx, l, limit)
		return err
	})
	return children, err
}

// LocationItems returns every item under l, ordered by the remaining
// location levels and then by name.
func LocationItems(ctx context.Context, d *db.DB, l Location) ([]model.Item, error) {
	var items []model.Item
	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		items, err = locationItems(ctx, tx, l)
		return err
	})
	return items, err
}

// ListAreas returns every distinct area, sorted case-insensitively.
func ListAreas(ctx context.Context, d *db.DB) ([]string, error) {
	return distinctValues(ctx, d, "area", "1 = 1", nil, 0)
}

// ListContainers returns every distinct container with its area, optionally
// restricted to one area.
func ListContainers(ctx context.Context, d *db.DB, area string) ([]model.ContainerRef, error) {
	where, args := locationFilter(area, "")
	refs := []model.ContainerRef{}
	err := d.SelectContext(ctx, &refs,
		`SELECT MIN(i.area) AS area, MIN(i.container) AS name FROM items i
		 WHERE i.area IS NOT NULL AND i.container IS NOT NULL`+where+`
		 GROUP BY i.area COLLATE FOLD, i.container COLLATE FOLD
		 ORDER BY MIN(i.area) COLLATE FOLD, MIN(i.container) COLLATE FOLD`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	return refs, nil
}

// ListBins returns every distinct bin with its area and container,
// optionally restricted by area and container.
func ListBins(ctx context.Context, d *db.DB, area, container string) ([]model.BinRef, error) {
	where, args := locationFilter(area, container)
	refs := []model.BinRef{}
	err := d.SelectContext(ctx, &refs,
		`SELECT MIN(i.area) AS area, MIN(i.container) AS container, MIN(i.bin) AS name FROM items i
		 WHERE i.area IS NOT NULL AND i.container IS NOT NULL AND i.bin IS NOT NULL`+where+`
		 GROUP BY i.area COLLATE FOLD, i.container COLLATE FOLD, i.bin COLLATE FOLD
		 ORDER BY MIN(i.area) COLLATE FOLD, MIN(i.container) COLLATE FOLD, MIN(i.bin) COLLATE FOLD`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bins: %w", err)
	}
	return refs, nil
}

func locationFilter(area, container string) (string, []any) {
	var where string
	var args []any
	if area != "" {
		where += " AND i.area = ? COLLATE FOLD"
		args = append(args, area)
	}
	if container != "" {
		where += " AND i.container = ? COLLATE FOLD"
		args = append(args, container)
	}
	return where, args
}

// GetArea returns the browse view of an area. At most preview containers
// are listed; preview <= 0 lists all.
func GetArea(ctx context.Context, d *db.DB, name string, preview int) (*model.AreaDetail, error) {
	var detail *model.AreaDetail
	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		l, err := resolve(ctx, tx, Location{Area: name})
		if err != nil {
			return err
		}
		detail = &model.AreaDetail{Name: l.Area}
		if detail.Summary, err = locationSummary(ctx, tx, l); err != nil {
			return err
		}
		if detail.Containers, err = locationChildren(ctx, tx, l, preview); err != nil {
			return err
		}
		detail.Items, err = locationItems(ctx, tx, l)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// GetContainer returns the browse view of a container. An empty area is
// inferred from the lowest-id item holding the container.
func GetContainer(ctx context.Context, d *db.DB, area, name string, preview int) (*model.ContainerDetail, error) {
	var detail *model.ContainerDetail
	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		l, err := resolve(ctx, tx, Location{Area: area, Container: name})
		if err != nil {
			return err
		}
		detail = &model.ContainerDetail{Name: l.Container, Area: l.Area}
		if detail.Summary, err = locationSummary(ctx, tx, l); err != nil {
			return err
		}
		if detail.Bins, err = locationChildren(ctx, tx, l, preview); err != nil {
			return err
		}
		detail.Items, err = locationItems(ctx, tx, l)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// GetBin returns the browse view of a bin. An empty area or container is
// inferred the same way as for GetContainer.
func GetBin(ctx context.Context, d *db.DB, area, container, name string) (*model.BinDetail, error) {
	var detail *model.BinDetail
	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		l, err := resolve(ctx, tx, Location{Area: area, Container: container, Bin: name})
		if err != nil {
			return err
		}
		detail = &model.BinDetail{Name: l.Bin, Area: l.Area, Container: l.Container}
		if detail.Summary, err = locationSummary(ctx, tx, l); err != nil {
			return err
		}
		detail.Items, err = locationItems(ctx, tx, l)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}
