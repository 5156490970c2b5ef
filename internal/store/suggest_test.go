package store

import (
	"context"
	"slices"
	"testing"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/model"
)

func TestSuggestions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustCreate(t, database, model.ItemInput{
		Name: "Drill", Description: "big cordless drill", Area: "Garage", Container: "ShelfA", Bin: "Bin3",
		Tags: []string{"power"},
	})
	mustCreate(t, database, model.ItemInput{Name: "Saw", Description: "sharp", Area: "Garage", Tags: []string{"power"}})

	got, err := Suggestions(ctx, database, "", 0)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	want := []string{"Bin3", "Drill", "Garage", "Saw", "ShelfA", "cordless", "drill", "power", "sharp"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got, err = Suggestions(ctx, database, "DRI", 0)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if !slices.Equal(got, []string{"Drill", "drill"}) {
		t.Errorf("expected [Drill drill], got %v", got)
	}

	got, _ = Suggestions(ctx, database, "", 3)
	if !slices.Equal(got, []string{"Bin3", "Drill", "Garage"}) {
		t.Errorf("expected first three, got %v", got)
	}
}

func TestSuggestionsEmpty(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := Suggestions(context.Background(), database, "", 0)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil pool, got %v", got)
	}
}

func TestAutocomplete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustCreate(t, database, model.ItemInput{Name: "Screwdriver set", Area: "Garage", Container: "Screw box", Tags: []string{"screws"}})
	mustCreate(t, database, model.ItemInput{Name: "Wood screws", Area: "Garage", Container: "Rack", Bin: "Screws"})
	mustCreate(t, database, model.ItemInput{Name: "Hammer", Area: "Workshop"})

	got, err := Autocomplete(ctx, database, "scre", 10)
	if err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	if !slices.Equal(got.Items, []string{"Screwdriver set", "Wood screws"}) {
		t.Errorf("expected both screw items, got %v", got.Items)
	}
	if !slices.Equal(got.Containers, []string{"Screw box"}) {
		t.Errorf("expected [Screw box], got %v", got.Containers)
	}
	if !slices.Equal(got.Bins, []string{"Screws"}) {
		t.Errorf("expected [Screws], got %v", got.Bins)
	}
	if !slices.Equal(got.Tags, []string{"screws"}) {
		t.Errorf("expected [screws], got %v", got.Tags)
	}
	if len(got.Areas) != 0 {
		t.Errorf("expected no areas, got %v", got.Areas)
	}

	got, _ = Autocomplete(ctx, database, "wood scr", 10)
	if !slices.Equal(got.Items, []string{"Wood screws"}) {
		t.Errorf("expected [Wood screws], got %v", got.Items)
	}

	got, _ = Autocomplete(ctx, database, "ar", 1)
	if len(got.Areas) != 1 {
		t.Errorf("expected areas capped at 1, got %v", got.Areas)
	}

	got, err = Autocomplete(ctx, database, `"(`, 10)
	if err != nil {
		t.Fatalf("Autocomplete with punctuation: %v", err)
	}
	if len(got.Items) != 0 {
		t.Errorf("expected no item names, got %v", got.Items)
	}

	got, _ = Autocomplete(ctx, database, "  ", 10)
	if got.Items == nil || len(got.Items) != 0 {
		t.Errorf("expected empty non-nil lists for blank query, got %+v", got)
	}
}

func TestAutocompletePastStem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustCreate(t, database, model.ItemInput{Name: "Drilling machine", Area: "Garage"})
	mustCreate(t, database, model.ItemInput{Name: "Hammer", Area: "Garage"})

	for _, q := range []string{"drill", "drilli", "DRILLING", "machine"} {
		got, err := Autocomplete(ctx, database, q, 10)
		if err != nil {
			t.Fatalf("Autocomplete(%q): %v", q, err)
		}
		if !slices.Equal(got.Items, []string{"Drilling machine"}) {
			t.Errorf("Autocomplete(%q): expected [Drilling machine], got %v", q, got.Items)
		}
	}

	got, err := Autocomplete(ctx, database, "illing", 10)
	if err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	if len(got.Items) != 0 {
		t.Errorf("expected no match inside a word, got %v", got.Items)
	}
}
