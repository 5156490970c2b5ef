package store

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/model"
)

func TestSearchDrillExample(t *testing.T) {
	database := db.NewTestDB(t)

	drill := mustCreate(t, database, model.ItemInput{
		Name: "Drill", Area: "Garage", Container: "ShelfA", Bin: "Bin3", Quantity: ptr(2),
	})
	mustCreate(t, database, model.ItemInput{Name: "Hammer", Area: "Garage"})

	result, err := Search(context.Background(), database, model.SearchParams{Term: "Drill"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 1 || len(result.Items) != 1 {
		t.Fatalf("expected 1 result, got total %d, items %d", result.Total, len(result.Items))
	}
	if result.Items[0].ID != drill.ID {
		t.Errorf("expected Drill, got %q", result.Items[0].Name)
	}
	if result.Fallback {
		t.Error("expected full-text search, got fallback")
	}
}

func TestSearchSemantics(t *testing.T) {
	database := db.NewTestDB(t)

	mustCreate(t, database, model.ItemInput{Name: "Drill", Description: "cordless, 18V", Tags: []string{"power"}})
	mustCreate(t, database, model.ItemInput{Name: "Drill bits", Description: "for wood"})
	mustCreate(t, database, model.ItemInput{Name: "Saw", Tags: []string{"tools"}})
	mustCreate(t, database, model.ItemInput{Name: "Hammer", Area: "Workshop"})

	tests := []struct {
		term string
		want []string
	}{
		{"drill", []string{"Drill", "Drill bits"}},
		{"drilling", []string{"Drill", "Drill bits"}},
		{"cordless drill", []string{"Drill"}},
		{"hammer OR saw", []string{"Saw", "Hammer"}},
		{"drill NOT wood", []string{"Drill"}},
		{"tools", []string{"Saw"}},
		{"workshop", []string{"Hammer"}},
		{"bit*", []string{"Drill bits"}},
		{"name:wood", nil},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := searchNames(t, database, tt.term)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSearchColumnFilterSkipsTags(t *testing.T) {
	database := db.NewTestDB(t)

	mustCreate(t, database, model.ItemInput{Name: "Drill"})
	mustCreate(t, database, model.ItemInput{Name: "Bit", Description: "drill bit"})

	result, err := Search(context.Background(), database, model.SearchParams{Term: "name:drill"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Fallback {
		t.Error("expected column filter to be handled by the full-text engine")
	}
	if result.Total != 1 || result.Items[0].Name != "Drill" {
		t.Errorf("expected only Drill, got %v", itemIDs(result.Items))
	}
}

func TestSearchFallback(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cable := mustCreate(t, database, model.ItemInput{Name: "Cable (USB-C)"})
	mustCreate(t, database, model.ItemInput{Name: "Cable (HDMI)"})
	cotton := mustCreate(t, database, model.ItemInput{Name: "Shirt", Description: "100% cotton"})
	mustCreate(t, database, model.ItemInput{Name: "Fan", Description: "1000 rpm"})
	tagged := mustCreate(t, database, model.ItemInput{Name: "Adapter", Tags: []string{"adapter (usb-c)"}})

	tests := []struct {
		term string
		want []int64
	}{
		{"(USB-C", []int64{cable.ID, tagged.ID}},
		{"100%", []int64{cotton.ID}},
	}
	for _, tt := range tests {
		result, err := Search(ctx, database, model.SearchParams{Term: tt.term, WithMatches: true})
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.term, err)
		}
		if !result.Fallback {
			t.Errorf("Search(%q): expected fallback", tt.term)
		}
		if got := itemIDs(result.Items); !slices.Equal(got, tt.want) {
			t.Errorf("Search(%q): expected %v, got %v", tt.term, tt.want, got)
		}
		if result.Total != len(tt.want) {
			t.Errorf("Search(%q): expected total %d, got %d", tt.term, len(tt.want), result.Total)
		}
	}

	result, _ := Search(ctx, database, model.SearchParams{Term: "(usb-c", WithMatches: true})
	if got := result.Matches[cable.ID]; !slices.Equal(got, []string{model.FieldName}) {
		t.Errorf("expected fallback match on name, got %v", got)
	}
	if got := result.Matches[tagged.ID]; !slices.Equal(got, []string{model.FieldTags}) {
		t.Errorf("expected fallback match on tags, got %v", got)
	}
}

func TestSearchFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a := mustCreate(t, database, model.ItemInput{Name: "Screws", Area: "Garage", Container: "ShelfA", Bin: "Bin1", Tags: []string{"metal"}})
	b := mustCreate(t, database, model.ItemInput{Name: "Nails", Area: "Garage", Container: "ShelfA", Bin: "Bin2", Tags: []string{"metal"}})
	c := mustCreate(t, database, model.ItemInput{Name: "Screws", Area: "Basement", Tags: []string{"spare"}})

	tests := []struct {
		name   string
		params model.SearchParams
		want   []int64
	}{
		{"no filter", model.SearchParams{}, []int64{a.ID, b.ID, c.ID}},
		{"area", model.SearchParams{Area: "Garage"}, []int64{a.ID, b.ID}},
		{"area is exact", model.SearchParams{Area: "garage"}, []int64{}},
		{"container and bin", model.SearchParams{Container: "ShelfA", Bin: "Bin2"}, []int64{b.ID}},
		{"tag", model.SearchParams{Tag: "metal"}, []int64{a.ID, b.ID}},
		{"term and area", model.SearchParams{Term: "screws", Area: "Basement"}, []int64{c.ID}},
		{"term and tag", model.SearchParams{Term: "screws", Tag: "metal"}, []int64{a.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Search(ctx, database, tt.params)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := itemIDs(result.Items); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if result.Total != len(tt.want) {
				t.Errorf("expected total %d, got %d", len(tt.want), result.Total)
			}
		})
	}
}

func TestSearchHydratesTags(t *testing.T) {
	database := db.NewTestDB(t)

	mustCreate(t, database, model.ItemInput{Name: "Drill", Tags: []string{"power", "tools"}})

	result, err := Search(context.Background(), database, model.SearchParams{Term: "drill"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	tags := result.Items[0].TagNames()
	slices.Sort(tags)
	if !slices.Equal(tags, []string{"power", "tools"}) {
		t.Errorf("expected tags [power tools], got %v", tags)
	}
}

func TestSearchPagination(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	var want []int64
	for n := range 25 {
		item := mustCreate(t, database, model.ItemInput{Name: fmt.Sprintf("Widget %d", n)})
		want = append(want, item.ID)
	}
	mustCreate(t, database, model.ItemInput{Name: "Gadget"})

	var got []int64
	for skip := 0; skip < 30; skip += 7 {
		result, err := Search(ctx, database, model.SearchParams{Term: "widget", Skip: skip, Limit: 7})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if result.Total != 25 {
			t.Errorf("skip %d: expected total 25, got %d", skip, result.Total)
		}
		if len(result.Items) > 7 {
			t.Errorf("skip %d: expected at most 7 items, got %d", skip, len(result.Items))
		}
		got = append(got, itemIDs(result.Items)...)
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected pages to concatenate to %v, got %v", want, got)
	}
}

func TestSearchPageBounds(t *testing.T) {
	database := db.NewTestDB(t)

	for n := range 3 {
		mustCreate(t, database, model.ItemInput{Name: fmt.Sprintf("Box %d", n)})
	}

	result, err := Search(context.Background(), database, model.SearchParams{Skip: -5, Limit: 0})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Items) != 3 {
		t.Errorf("expected negative skip and zero limit to return all 3, got %d", len(result.Items))
	}

	skip, limit := clampPage(0, MaxLimit+1, 0)
	if skip != 0 || limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, limit)
	}
}

func TestSearchConfiguredMaxLimit(t *testing.T) {
	tests := []struct {
		limit, max int
		want       int
	}{
		{1500, 2000, 1500},
		{2500, 2000, 2000},
		{0, 2000, DefaultLimit},
		{0, 50, 50},
		{80, 50, 50},
	}
	for _, tt := range tests {
		if _, got := clampPage(0, tt.limit, tt.max); got != tt.want {
			t.Errorf("clampPage(0, %d, %d): expected %d, got %d", tt.limit, tt.max, tt.want, got)
		}
	}

	database := db.NewTestDB(t)
	ctx := context.Background()
	_, err := database.ExecContext(ctx,
		`WITH RECURSIVE n(x) AS (SELECT 1 UNION ALL SELECT x + 1 FROM n WHERE x < 1200)
		 INSERT INTO items (name) SELECT 'Box ' || x FROM n`,
	)
	if err != nil {
		t.Fatalf("inserting items: %v", err)
	}

	result, err := Search(ctx, database, model.SearchParams{Limit: 1100, MaxLimit: 2000})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Items) != 1100 || result.Total != 1200 {
		t.Errorf("expected 1100 of 1200 items, got %d of %d", len(result.Items), result.Total)
	}
}

func TestSearchMatches(t *testing.T) {
	database := db.NewTestDB(t)

	item := mustCreate(t, database, model.ItemInput{
		Name: "Drill", Description: "cordless drilling machine", Area: "Garage", Tags: []string{"power"},
	})

	result, err := Search(context.Background(), database, model.SearchParams{Term: "drills", WithMatches: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{model.FieldName, model.FieldDescription}
	if got := result.Matches[item.ID]; !slices.Equal(got, want) {
		t.Errorf("expected matches %v, got %v", want, got)
	}

	result, _ = Search(context.Background(), database, model.SearchParams{Term: "drills"})
	if result.Matches != nil {
		t.Error("expected no matches unless requested")
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("expected escaped pattern, got %q", got)
	}
}
