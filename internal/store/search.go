package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/model"
	"github.com/erazemk/binventory/internal/textmatch"
)

// Page size bounds applied by Search unless the caller sets its own.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Candidate clauses, tried in order. The tag index has a single column, so
// a term using column filters only parses against items_fts.
const (
	matchItemsOrTags = `i.id IN (
		SELECT rowid FROM items_fts WHERE items_fts MATCH ?
		UNION
		SELECT t.item_id FROM items_tags t JOIN items_tags_fts f ON f.rowid = t.id
		WHERE items_tags_fts MATCH ?)`
	matchItems = `i.id IN (SELECT rowid FROM items_fts WHERE items_fts MATCH ?)`
	matchLike  = `(i.name LIKE ? ESCAPE '\' OR i.description LIKE ? ESCAPE '\'
		OR i.area LIKE ? ESCAPE '\' OR i.container LIKE ? ESCAPE '\' OR i.bin LIKE ? ESCAPE '\'
		OR EXISTS (SELECT 1 FROM items_tags t WHERE t.item_id = i.id AND t.tag LIKE ? ESCAPE '\'))`
)

// Search returns one page of items matching p and the total match count.
//
// A term is handed to the full-text engine as a native query: bare words
// are AND-ed and stemmed, and operators such as OR, NOT, quotes and prefix
// '*' are honored. A term the engine cannot parse falls back to a
// case-insensitive substring match of the whole term across every text
// field, and the result is flagged with Fallback. Structured filters are
// exact matches. Results are ordered by id.
func Search(ctx context.Context, d *db.DB, p model.SearchParams) (*model.SearchResult, error) {
	term := strings.TrimSpace(p.Term)
	skip, limit := clampPage(p.Skip, p.Limit, p.MaxLimit)

	var conds []string
	var args []any
	filter := func(cond string, value string) {
		if value != "" {
			conds = append(conds, cond)
			args = append(args, value)
		}
	}
	filter("i.area = ?", p.Area)
	filter("i.container = ?", p.Container)
	filter("i.bin = ?", p.Bin)
	filter("EXISTS (SELECT 1 FROM items_tags t WHERE t.item_id = i.id AND t.tag = ?)", p.Tag)

	result := &model.SearchResult{Items: []model.Item{}}
	err := d.ReadTx(ctx, func(tx *sqlx.Tx) error {
		if term == "" {
			return searchPage(ctx, tx, result, conds, args, skip, limit)
		}

		for _, clause := range []string{matchItemsOrTags, matchItems} {
			matchArgs := make([]any, strings.Count(clause, "?"))
			for n := range matchArgs {
				matchArgs[n] = term
			}
			err := searchPage(ctx, tx, result,
				append(conds[:len(conds):len(conds)], clause), append(args[:len(args):len(args)], matchArgs...),
				skip, limit,
			)
			err = asQuerySyntaxError(term, err)
			if !errors.Is(err, ErrQuerySyntax) {
				return err
			}
		}

		result.Fallback = true
		pattern := "%" + escapeLike(term) + "%"
		likeArgs := []any{pattern, pattern, pattern, pattern, pattern, pattern}
		return searchPage(ctx, tx, result, append(conds, matchLike), append(args, likeArgs...), skip, limit)
	})
	if err != nil {
		return nil, err
	}

	if p.WithMatches && term != "" {
		result.Matches = matchFields(result.Items, term, result.Fallback)
	}
	return result, nil
}

// searchPage fills result with the total and the requested page. result is
// left untouched on error.
func searchPage(ctx context.Context, tx *sqlx.Tx, result *model.SearchResult, conds []string, args []any, skip, limit int) error {
	where := "1 = 1"
	if len(conds) > 0 {
		where = "(" + strings.Join(conds, ") AND (") + ")"
	}

	var total int
	if err := tx.GetContext(ctx, &total, `SELECT COUNT(*) FROM items i WHERE `+where, args...); err != nil {
		return fmt.Errorf("counting items: %w", err)
	}

	items, err := selectItems(ctx, tx,
		`SELECT `+itemColumns+` FROM items i WHERE `+where+` ORDER BY i.id LIMIT ? OFFSET ?`,
		append(args, limit, skip)...,
	)
	if err != nil {
		return fmt.Errorf("searching items: %w", err)
	}

	result.Total = total
	result.Items = items
	return nil
}

func clampPage(skip, limit, maxLimit int) (int, int) {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = min(DefaultLimit, maxLimit)
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// matchFields reports, per item, which fields match term. Full-text hits are
// re-tested with stemming; substring fallback hits with a plain substring test.
func matchFields(items []model.Item, term string, fallback bool) map[int64][]string {
	matcher := textmatch.New(term)
	match := matcher.Match
	if fallback || matcher.Empty() {
		match = func(text string) bool { return textmatch.Contains(text, term) }
	}

	matches := make(map[int64][]string, len(items))
	for _, item := range items {
		fields := []string{}
		for _, f := range []struct {
			name  string
			value string
		}{
			{model.FieldName, item.Name},
			{model.FieldDescription, item.Description},
			{model.FieldArea, item.Area},
			{model.FieldContainer, item.Container},
			{model.FieldBin, item.Bin},
		} {
			if match(f.value) {
				fields = append(fields, f.name)
			}
		}
		for _, tag := range item.Tags {
			if match(tag.Tag) {
				fields = append(fields, model.FieldTags)
				break
			}
		}
		matches[item.ID] = fields
	}
	return matches
}
