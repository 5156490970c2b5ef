package model

// Match fields reported by field match info.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldArea        = "area"
	FieldContainer   = "container"
	FieldBin         = "bin"
	FieldTags        = "tags"
)

// SearchParams describes one search request. Empty strings mean "no filter".
type SearchParams struct {
	Term      string
	Area      string
	Container string
	Bin       string
	Tag       string
	Skip      int
	Limit     int
	// MaxLimit caps Limit. Zero means the store's own MaxLimit.
	MaxLimit    int
	WithMatches bool
}

// SearchResult is one page of matching items plus the unpaginated total.
type SearchResult struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
	// Fallback is set when the term could not be parsed as a full-text
	// query and substring matching was used instead.
	Fallback bool `json:"fallback,omitempty"`
	// Matches maps item id to the fields that matched the term.
	Matches map[int64][]string `json:"matches,omitempty"`
}

// Autocomplete groups completion candidates by kind.
type Autocomplete struct {
	Items      []string `json:"items"`
	Areas      []string `json:"areas"`
	Containers []string `json:"containers"`
	Bins       []string `json:"bins"`
	Tags       []string `json:"tags"`
}
