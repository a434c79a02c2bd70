// internal/orchestrator/batch_test.go
package orchestrator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pricelens/scrapex/internal/retailer"
)

func testCatalog(n int) retailer.Catalog {
	cfgs := make([]retailer.Config, 0, n)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("shop%d", i)
		cfgs = append(cfgs, retailer.Config{
			Key:               key,
			Domain:            key + ".nonexistent.invalid",
			SearchURLTemplate: "https://" + key + ".nonexistent.invalid/search?q={query}",
			Selectors:         map[string][]string{"title": {".title"}, "price": {".price"}},
			Status:            retailer.StatusActive,
		})
	}
	return retailer.Catalog{Retailers: cfgs}
}

func TestScrapeBatchPreservesInputOrderAndCount(t *testing.T) {
	reg := &retailer.Registry{}
	reg.Import(testCatalog(3))
	o := New(reg, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	keys := []string{"shop2", "shop0", "shop1"}
	results := o.ScrapeBatch(ctx, reg, "wireless mouse", keys)

	if len(results) != len(keys) {
		t.Fatalf("expected %d results, got %d", len(keys), len(results))
	}
	for i, want := range keys {
		if results[i].RetailerKey != want {
			t.Errorf("result %d: expected retailer key %q, got %q", i, want, results[i].RetailerKey)
		}
		if results[i].Result == nil {
			t.Errorf("result %d: expected a non-nil Scrape result for %q", i, want)
		}
	}
}

func TestScrapeBatchResolvesAllActiveRetailersWhenKeysEmpty(t *testing.T) {
	reg := &retailer.Registry{}
	reg.Import(testCatalog(4))
	o := New(reg, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	results := o.ScrapeBatch(ctx, reg, "wireless mouse", nil)
	if len(results) != 4 {
		t.Fatalf("expected 4 results (all active retailers), got %d", len(results))
	}
}

func TestScrapeBatchReportsUnknownRetailerKey(t *testing.T) {
	reg := &retailer.Registry{}
	reg.Import(testCatalog(1))
	o := New(reg, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	results := o.ScrapeBatch(ctx, reg, "wireless mouse", []string{"shop0", "does-not-exist"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Err == nil {
		t.Error("expected an error for an unresolvable retailer key")
	}
	if results[1].Result != nil {
		t.Error("expected no Scrape result for an unresolvable retailer key")
	}
}

func TestScrapeBatchRespectsConcurrencyCapWithManyRetailers(t *testing.T) {
	reg := &retailer.Registry{}
	n := DefaultBatchConcurrency + 5
	reg.Import(testCatalog(n))
	o := New(reg, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	results := o.ScrapeBatch(ctx, reg, "wireless mouse", nil)
	if len(results) != n {
		t.Fatalf("expected %d results, got %d", n, len(results))
	}
	for i, r := range results {
		if r.Result == nil && r.Err == nil {
			t.Errorf("result %d: expected either a Scrape result or an error, got neither", i)
		}
	}
}
