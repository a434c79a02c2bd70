// internal/extract/types.go
package extract

import "time"

// ProductRecord is the normalized output of the Extraction Layer.
type ProductRecord struct {
	Title         string    `json:"title"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Rating        *float64  `json:"rating,omitempty"`
	Availability  string    `json:"availability"`
	Description   string    `json:"description,omitempty"`
	ImageURLs     []string  `json:"image_urls,omitempty"`
	SourceURL     string    `json:"source_url"`
	RetailerKey   string    `json:"retailer_key"`
	ExtractedAt   time.Time `json:"extracted_at"`
}

// MaxImageURLs bounds the number of absolute image URLs collected per
// record (spec default: 5).
const MaxImageURLs = 5

// currencySymbols maps a detected symbol to its ISO currency code, used to
// record a non-USD currency when present in a matched price string.
var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
	"₹": "INR",
}
