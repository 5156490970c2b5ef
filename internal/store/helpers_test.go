package store

import (
	"context"
	"testing"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/model"
)

func ptr[T any](v T) *T { return &v }

func mustCreate(t *testing.T, d *db.DB, in model.ItemInput) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), d, in)
	if err != nil {
		t.Fatalf("CreateItem(%q): %v", in.Name, err)
	}
	return item
}

func itemIDs(items []model.Item) []int64 {
	ids := make([]int64, len(items))
	for n, i := range items {
		ids[n] = i.ID
	}
	return ids
}
