package model

import "github.com/shopspring/decimal"

// Summary aggregates the items found under a location or tag.
type Summary struct {
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// LocationSummary is a child location with its own summary.
type LocationSummary struct {
	Name string `json:"name"`
	Summary
}

// ContainerRef names a container together with its area.
type ContainerRef struct {
	Name string `json:"name" db:"name"`
	Area string `json:"area" db:"area"`
}

// BinRef names a bin together with its area and container.
type BinRef struct {
	Name      string `json:"name" db:"name"`
	Area      string `json:"area" db:"area"`
	Container string `json:"container" db:"container"`
}

// AreaDetail is the browse view of one area.
type AreaDetail struct {
	Name string `json:"name"`
	Summary
	Containers []LocationSummary `json:"containers"`
	Items      []Item            `json:"items"`
}

// ContainerDetail is the browse view of one container.
type ContainerDetail struct {
	Name string `json:"name"`
	Area string `json:"area"`
	Summary
	Bins  []LocationSummary `json:"bins"`
	Items []Item            `json:"items"`
}

// BinDetail is the browse view of one bin.
type BinDetail struct {
	Name      string `json:"name"`
	Area      string `json:"area"`
	Container string `json:"container"`
	Summary
	Items []Item `json:"items"`
}

// TagDetail is the browse view of one tag.
type TagDetail struct {
	Name string `json:"name"`
	Summary
	Areas      []string `json:"areas"`
	Containers []string `json:"containers"`
	Bins       []string `json:"bins"`
	Items      []Item   `json:"items"`
}
