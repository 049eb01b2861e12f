package domain

import "time"

// Money is a single price amount in a given currency.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// PriceRange holds the min/max variant prices of a product.
type PriceRange struct {
	MinVariantPrice Money `json:"min_variant_price"`
	MaxVariantPrice Money `json:"max_variant_price"`
}

// Image is a product image reference.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Product is a catalog product fetched from the commerce backend.
type Product struct {
	ID               string     `json:"id"`
	Handle           string     `json:"handle"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Vendor           string     `json:"vendor"`
	ProductType      string     `json:"product_type"`
	Tags             []string   `json:"tags"`
	PriceRange       PriceRange `json:"price_range"`
	AvailableForSale bool       `json:"available_for_sale"`
	FeaturedImage    *Image     `json:"featured_image,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
