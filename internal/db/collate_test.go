package db

import (
	"context"
	"testing"
)

func TestCompareFold(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"Garage", "garage", 0},
		{"Küche", "KÜCHE", 0},
		{"ΣΟΦΙΑ", "σοφια", 0},
		{"Attic", "basement", -1},
		{"Box", "box 2", -1},
		{"Öl", "öl", 0},
		{"Shelf", "Sheld", 1},
	}
	for _, tt := range tests {
		if got := CompareFold(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareFold(%q, %q): expected %d, got %d", tt.a, tt.b, tt.want, got)
		}
	}
}

func TestFoldCollationRegistered(t *testing.T) {
	database := NewTestDB(t)

	var equal bool
	err := database.GetContext(context.Background(), &equal, `SELECT 'Küche' = 'KÜCHE' COLLATE FOLD`)
	if err != nil {
		t.Fatalf("querying with collation: %v", err)
	}
	if !equal {
		t.Error("expected non-ASCII case variants to compare equal")
	}
}
