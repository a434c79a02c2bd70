// pkg/scrapex/api_test.go
package scrapex

import (
	"context"
	"testing"
	"time"

	"github.com/pricelens/scrapex/internal/retailer"
)

func testCatalog() retailer.Catalog {
	return retailer.Catalog{Retailers: []retailer.Config{
		{
			Key:               "shopone",
			Domain:            "shopone.nonexistent.invalid",
			SearchURLTemplate: "https://shopone.nonexistent.invalid/search?q={query}",
			Selectors:         map[string][]string{"title": {".title"}, "price": {".price"}},
			Status:            retailer.StatusActive,
		},
		{
			Key:               "shoptwo",
			Domain:            "shoptwo.nonexistent.invalid",
			SearchURLTemplate: "https://shoptwo.nonexistent.invalid/search?q={query}",
			Selectors:         map[string][]string{"title": {".title"}, "price": {".price"}},
			Status:            retailer.StatusActive,
		},
	}}
}

func TestClientScrapeRejectsEmptyQuery(t *testing.T) {
	c := NewClient(testCatalog(), nil, nil)
	if _, err := c.Scrape(context.Background(), "", nil); err == nil {
		t.Error("expected an error for an empty query")
	}
}

func TestClientScrapeReturnsOneResultPerRetailerInOrder(t *testing.T) {
	c := NewClient(testCatalog(), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	results, err := c.Scrape(ctx, "wireless mouse", []string{"shoptwo", "shopone"})
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RetailerKey != "shoptwo" || results[1].RetailerKey != "shopone" {
		t.Errorf("expected results in request order, got %q then %q", results[0].RetailerKey, results[1].RetailerKey)
	}
}

func TestClientScrapeDefaultsToAllActiveRetailers(t *testing.T) {
	c := NewClient(testCatalog(), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	results, err := c.Scrape(ctx, "wireless mouse", nil)
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results (both catalog retailers), got %d", len(results))
	}
}

func TestClientRegistryAndStatsAreReachable(t *testing.T) {
	c := NewClient(testCatalog(), nil, nil)

	if _, err := c.Registry().Get("shopone"); err != nil {
		t.Errorf("expected shopone to be reachable through Client.Registry(): %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	c.Scrape(ctx, "wireless mouse", []string{"shopone"})

	if len(c.Stats()) == 0 {
		t.Error("expected at least one recorded (domain, strategy) statistic after a scrape attempt")
	}
}
