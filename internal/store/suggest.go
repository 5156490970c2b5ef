package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/model"
	"github.com/erazemk/binventory/internal/textmatch"
)

// minSuggestionWordLen is the shortest description word offered as a suggestion.
const minSuggestionWordLen = 4

// Suggestions returns the sorted, deduplicated pool of search terms: item
// names, description words of at least four characters and every distinct
// area, container, bin and tag. A non-empty query keeps only entries
// containing it, ignoring case. limit <= 0 returns the whole pool.
func Suggestions(ctx context.Context, d *db.DB, query string, limit int) ([]string, error) {
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" {
			seen[s] = true
		}
	}

	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		var rows []struct {
			Name        string  `db:"name"`
			Description *string `db:"description"`
		}
		if err := tx.SelectContext(ctx, &rows, `SELECT name, description FROM items`); err != nil {
			return fmt.Errorf("loading item names: %w", err)
		}
		for _, r := range rows {
			add(r.Name)
			if r.Description == nil {
				continue
			}
			for _, w := range strings.Fields(*r.Description) {
				if len([]rune(w)) >= minSuggestionWordLen {
					add(w)
				}
			}
		}

		for _, q := range []string{
			`SELECT DISTINCT area FROM items WHERE area IS NOT NULL`,
			`SELECT DISTINCT container FROM items WHERE container IS NOT NULL`,
			`SELECT DISTINCT bin FROM items WHERE bin IS NOT NULL`,
			`SELECT DISTINCT tag FROM items_tags`,
		} {
			var values []string
			if err := tx.SelectContext(ctx, &values, q); err != nil {
				return fmt.Errorf("loading suggestions: %w", err)
			}
			for _, v := range values {
				add(v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	pool := make([]string, 0, len(seen))
	for s := range seen {
		if query == "" || textmatch.Contains(s, query) {
			pool = append(pool, s)
		}
	}
	slices.Sort(pool)

	if limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}
	return pool, nil
}

// Autocomplete returns completion candidates for a partially typed query.
// Item names complete by word prefix through the full-text index, falling
// back to a raw name prefix match when the index has none; areas,
// containers, bins and tags by case-insensitive substring. Each list holds
// at most limit distinct values.
func Autocomplete(ctx context.Context, d *db.DB, query string, limit int) (*model.Autocomplete, error) {
	query = strings.TrimSpace(query)
	result := &model.Autocomplete{
		Items:      []string{},
		Areas:      []string{},
		Containers: []string{},
		Bins:       []string{},
		Tags:       []string{},
	}
	if query == "" {
		return result, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		if match := namePrefixQuery(query); match != "" {
			err := tx.SelectContext(ctx, &result.Items,
				`SELECT DISTINCT i.name FROM items i JOIN items_fts f ON f.rowid = i.id
				 WHERE items_fts MATCH ? ORDER BY i.name COLLATE FOLD LIMIT ?`, match, limit,
			)
			if err != nil {
				return fmt.Errorf("completing item names: %w", asQuerySyntaxError(match, err))
			}
		}
		// The index holds stems, so a prefix past the stem ("drilli" for
		// "drill") finds nothing there. Match the raw names instead.
		if len(result.Items) == 0 {
			prefix := escapeLike(query) + "%"
			err := tx.SelectContext(ctx, &result.Items,
				`SELECT DISTINCT name FROM items
				 WHERE name LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\'
				 ORDER BY name COLLATE FOLD LIMIT ?`, prefix, "% "+prefix, limit,
			)
			if err != nil {
				return fmt.Errorf("completing item names: %w", err)
			}
		}

		pattern := "%" + escapeLike(query) + "%"
		for _, c := range []struct {
			query string
			dest  *[]string
		}{
			{`SELECT DISTINCT area FROM items WHERE area LIKE ? ESCAPE '\' ORDER BY area COLLATE FOLD LIMIT ?`, &result.Areas},
			{`SELECT DISTINCT container FROM items WHERE container LIKE ? ESCAPE '\' ORDER BY container COLLATE FOLD LIMIT ?`, &result.Containers},
			{`SELECT DISTINCT bin FROM items WHERE bin LIKE ? ESCAPE '\' ORDER BY bin COLLATE FOLD LIMIT ?`, &result.Bins},
			{`SELECT DISTINCT tag FROM items_tags WHERE tag LIKE ? ESCAPE '\' ORDER BY tag COLLATE FOLD LIMIT ?`, &result.Tags},
		} {
			if err := tx.SelectContext(ctx, c.dest, c.query, pattern, limit); err != nil {
				return fmt.Errorf("autocompleting: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// namePrefixQuery builds a full-text query matching names that contain a
// word starting with each word of query.
func namePrefixQuery(query string) string {
	words := textmatch.Tokenize(query)
	parts := make([]string, len(words))
	for n, w := range words {
		parts[n] = `name : "` + strings.ReplaceAll(w, `"`, `""`) + `"*`
	}
	return strings.Join(parts, " AND ")
}
