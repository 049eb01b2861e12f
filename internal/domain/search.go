package domain

import "time"

// SearchableVehicle is a flattened vehicle projection built for querying.
// It is derived from Vehicle and is not the system of record.
type SearchableVehicle struct {
	ID              string    `json:"id"`
	ListingTitle    string    `json:"listing_title"`
	Slug            string    `json:"slug"`
	Chassis         string    `json:"chassis"`
	VIN             *string   `json:"vin,omitempty"`
	Mileage         *int      `json:"mileage,omitempty"`
	ListingPrice    *float64  `json:"listing_price,omitempty"`
	Status          string    `json:"status"`
	InventoryStatus string    `json:"inventory_status"`
	CreatedAt       time.Time `json:"created_at"`
}

// SearchableProduct is a flattened product projection built for querying.
// Tags are space-joined into a single string so token search covers them
// without a separate tag index.
type SearchableProduct struct {
	ID               string    `json:"id"`
	Handle           string    `json:"handle"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Vendor           string    `json:"vendor"`
	ProductType      string    `json:"product_type"`
	Tags             string    `json:"tags"`
	MinPrice         string    `json:"min_price"`
	MaxPrice         string    `json:"max_price"`
	AvailableForSale bool      `json:"available_for_sale"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SearchType filters which result groups a search returns.
type SearchType string

const (
	SearchTypeAll      SearchType = "all"
	SearchTypeVehicles SearchType = "vehicles"
	SearchTypeParts    SearchType = "parts"
)

// Valid reports whether t is one of the known search types.
func (t SearchType) Valid() bool {
	switch t {
	case SearchTypeAll, SearchTypeVehicles, SearchTypeParts:
		return true
	}
	return false
}

// SearchRequest is a parsed search query. IP is carried for analytics only.
type SearchRequest struct {
	Query string     `json:"query"`
	Type  SearchType `json:"type"`
	Page  int        `json:"page"`
	IP    string     `json:"-"`
}

// SearchResult is one ranked hit. Exactly one of Vehicle or Product is set,
// discriminated by Kind.
type SearchResult struct {
	Kind    string             `json:"kind"` // "vehicle" or "product"
	Score   float64            `json:"score"`
	Title   string             `json:"title"`   // highlighted
	Snippet string             `json:"snippet"` // highlighted
	Vehicle *SearchableVehicle `json:"vehicle,omitempty"`
	Product *SearchableProduct `json:"product,omitempty"`
}

// Result kinds.
const (
	KindVehicle = "vehicle"
	KindProduct = "product"
)

// SearchResponse is the answer to a search query. Counts are per-type over
// the full match set, independent of the requested type filter and page.
type SearchResponse struct {
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
	VehicleCount int            `json:"vehicle_count"`
	PartsCount   int            `json:"parts_count"`
	Page         int            `json:"page"`
	PerPage      int            `json:"per_page"`
	SearchTime   int64          `json:"search_time_ms"`
}

// Suggestion is one autocomplete entry. ViewAll marks the trailing synthetic
// "view all results" entry.
type Suggestion struct {
	Kind    string  `json:"kind"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet,omitempty"`
	Slug    string  `json:"slug,omitempty"`
	Handle  string  `json:"handle,omitempty"`
	Score   float64 `json:"score"`
	ViewAll bool    `json:"view_all,omitempty"`
}

// SuggestResponse is the answer to an autocomplete query.
type SuggestResponse struct {
	Suggestions  []Suggestion `json:"suggestions"`
	TotalResults int          `json:"total_results"`
}
