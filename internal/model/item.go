package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a physical thing stored somewhere in the area > container > bin
// hierarchy. Empty location fields mean the level is not set.
type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Area        string          `json:"area,omitempty"`
	Container   string          `json:"container,omitempty"`
	Bin         string          `json:"bin,omitempty"`
	Quantity    int             `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	URL         string          `json:"url,omitempty"`
	ImageMime   string          `json:"image_mime,omitempty"`
	Tags        []Tag           `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Tag is a free-form label owned by one item.
type Tag struct {
	ID     int64  `json:"id"`
	ItemID int64  `json:"item_id"`
	Tag    string `json:"tag"`
}

// TagNames returns the item's tag values in stored order.
func (i *Item) TagNames() []string {
	names := make([]string, len(i.Tags))
	for n, t := range i.Tags {
		names[n] = t.Tag
	}
	return names
}

// ItemInput holds the fields of a new item.
type ItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Area        string          `json:"area"`
	Container   string          `json:"container"`
	Bin         string          `json:"bin"`
	Quantity    *int            `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	URL         string          `json:"url"`
	Tags        []string        `json:"tags"`
}

// ItemPatch holds a partial update. Nil fields are left unchanged; a nil
// Tags slice keeps the current tags while an empty one removes them all.
type ItemPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Area        *string          `json:"area"`
	Container   *string          `json:"container"`
	Bin         *string          `json:"bin"`
	Quantity    *int             `json:"quantity"`
	Cost        *decimal.Decimal `json:"cost"`
	URL         *string          `json:"url"`
	Tags        []string         `json:"tags"`
}
