package models

import (
	"time"
)

// UnknownProductName is used when a listing's title cannot be scraped.
// A missing title never aborts a match; a missing URL or price does.
const UnknownProductName = "Unknown Product"

// Retailer identifies one of the supported e-commerce sites.
type Retailer string

const (
	RetailerAmazon   Retailer = "amazon"
	RetailerWalmart  Retailer = "walmart"
	RetailerFlipkart Retailer = "flipkart"
	RetailerMyntra   Retailer = "myntra"
	RetailerAjio     Retailer = "ajio"
)

// GlobalRetailers is the default cross-market set checked by the
// best-price aggregation. Prices are compared as raw numbers in each
// retailer's native currency; deployments mixing currency domains
// should restrict this set via configuration.
var GlobalRetailers = []Retailer{
	RetailerAmazon,
	RetailerWalmart,
	RetailerFlipkart,
	RetailerMyntra,
	RetailerAjio,
}

// IndianRetailers all price in INR and are safe to compare directly.
var IndianRetailers = []Retailer{
	RetailerFlipkart,
	RetailerMyntra,
	RetailerAjio,
}

// ProductMatch is the first search hit for a product on one retailer.
type ProductMatch struct {
	Retailer Retailer `json:"retailer"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	URL      string   `json:"url"`
}

// AggregatedResult is the outcome of one multi-retailer lookup.
// PerRetailer holds an entry for every retailer that was attempted; a
// nil value means no usable result (not found, blocked, or
// unparseable — the distinction is logged, not returned). BestMatch
// is the lowest-priced present entry, nil iff every entry is nil.
type AggregatedResult struct {
	PerRetailer map[Retailer]*ProductMatch `json:"per_retailer"`
	BestMatch   *ProductMatch              `json:"best_match"`
}

// WatchItem is one row of the user's shopping list.
type WatchItem struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	TargetPrice  *float64   `json:"target_price,omitempty"`
	CurrentPrice *float64   `json:"current_price,omitempty"`
	URL          string     `json:"url,omitempty"`
	Retailer     Retailer   `json:"retailer,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
