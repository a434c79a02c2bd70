// internal/output/product_sink.go
package output

import (
	"fmt"

	"github.com/pricelens/scrapex/internal/extract"
)

// ProductRecordToMap flattens a ProductRecord into the generic
// map[string]interface{} shape every Writer already understands, so the
// orchestrator's extraction output can reach any configured sink (file,
// CSV, or a database writer) without each one knowing about the
// extraction layer's concrete type.
func ProductRecordToMap(r *extract.ProductRecord) map[string]interface{} {
	m := map[string]interface{}{
		"title":        r.Title,
		"price":        r.Price,
		"currency":     r.Currency,
		"availability": r.Availability,
		"source_url":   r.SourceURL,
		"retailer_key": r.RetailerKey,
		"extracted_at": r.ExtractedAt,
	}
	if r.Rating != nil {
		m["rating"] = *r.Rating
	}
	if r.Description != "" {
		m["description"] = r.Description
	}
	if len(r.ImageURLs) > 0 {
		m["image_urls"] = r.ImageURLs
	}
	return m
}

// WriteProduct writes a single extracted record through w.
func WriteProduct(w Writer, r *extract.ProductRecord) error {
	if err := w.WriteData(ProductRecordToMap(r)); err != nil {
		return fmt.Errorf("output: write product from %s: %w", r.SourceURL, err)
	}
	return nil
}

// WriteProducts batches a page of extracted records through w.
func WriteProducts(w Writer, records []*extract.ProductRecord) error {
	batch := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		batch = append(batch, ProductRecordToMap(r))
	}
	if err := w.WriteBatch(batch); err != nil {
		return fmt.Errorf("output: write product batch: %w", err)
	}
	return nil
}
