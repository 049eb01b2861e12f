package domain

import "time"

// Vehicle is a list-view vehicle record fetched from the content backend.
// Optional fields that only exist on the detail view (e.g. VIN) are modeled
// as pointers so transforms stay total over both source shapes.
type Vehicle struct {
	ID               string    `json:"id"`
	ListingTitle     string    `json:"listing_title"`
	Slug             string    `json:"slug"`
	Chassis          string    `json:"chassis"`
	VIN              *string   `json:"vin,omitempty"`
	Mileage          *int      `json:"mileage,omitempty"`
	ListingPrice     *float64  `json:"listing_price,omitempty"`
	ShowCallForPrice bool      `json:"show_call_for_price"`
	Status           string    `json:"status"`
	InventoryStatus  string    `json:"inventory_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// InventoryStatus constants.
const (
	InventoryCurrent = "Current Inventory"
	InventorySold    = "Sold Inventory"
)
