// test/integration_test.go
package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pricelens/scrapex/internal/retailer"
	"github.com/pricelens/scrapex/pkg/scrapex"
)

const mockProductHTML = `
<!DOCTYPE html>
<html>
<body>
	<div class="product">
		<h1 class="title">Amazing Product</h1>
		<div class="price">$1,234.56</div>
		<div class="description">This is an amazing product that everyone loves!</div>
		<img class="photo" src="/img/amazing.jpg">
	</div>
</body>
</html>
`

// loopbackRegistryKey is the registry key the orchestrator will actually
// look up for any httptest.Server target. Orchestrator.Scrape derives its
// own site-config key from the target URL's host (domainAndKey), dropping
// the port, reducing the host with the public-suffix list and taking the
// second-to-last dot-separated label; for "127.0.0.1:PORT" that label is
// always "0" regardless of port. A retailer scraped through
// a local test server must be registered under this key, not its catalog
// name, or selector resolution misses and extraction fails.
const loopbackRegistryKey = "0"

func newTestRetailer(server *httptest.Server, name string) retailer.Config {
	return retailer.Config{
		Key:               loopbackRegistryKey,
		Name:              name,
		Domain:            server.Listener.Addr().String(),
		SearchURLTemplate: server.URL + "/search?q={query}",
		Selectors: map[string][]string{
			"title":       {".title"},
			"price":       {".price"},
			"description": {".description"},
			"image":       {".photo"},
		},
		Status: retailer.StatusActive,
	}
}

// TestClientScrapeEndToEndAgainstMockRetailer exercises the full
// catalog -> registry -> orchestrator -> extract path the way a caller
// actually reaches it, through the public facade.
func TestClientScrapeEndToEndAgainstMockRetailer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, mockProductHTML)
	}))
	defer server.Close()

	catalog := retailer.Catalog{Retailers: []retailer.Config{newTestRetailer(server, "mockshop")}}
	client := scrapex.NewClient(catalog, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, err := client.Scrape(ctx, "anything", []string{loopbackRegistryKey})
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}

	r := results[0]
	if r.RetailerKey != loopbackRegistryKey {
		t.Errorf("expected retailer key %q, got %q", loopbackRegistryKey, r.RetailerKey)
	}
	if r.Result == nil || !r.Result.Success {
		t.Fatalf("expected a successful scrape, got %+v (err=%v)", r.Result, r.Err)
	}
	if r.Result.Record == nil {
		t.Fatal("expected an extracted product record")
	}
	if r.Result.Record.Title != "Amazing Product" {
		t.Errorf("expected extracted title %q, got %q", "Amazing Product", r.Result.Record.Title)
	}
	if r.Result.Record.Price != 1234.56 {
		t.Errorf("expected extracted price 1234.56, got %v", r.Result.Record.Price)
	}
}

// TestClientScrapeEndToEndAcrossMultipleRetailers confirms the batch
// entrypoint fans out across several retailers concurrently and keeps
// results in request order even when one retailer never responds.
func TestClientScrapeEndToEndAcrossMultipleRetailers(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, mockProductHTML)
	}))
	defer good.Close()

	catalog := retailer.Catalog{Retailers: []retailer.Config{
		newTestRetailer(good, "goodshop"),
		{
			Key:               "deadshop",
			Name:              "deadshop",
			Domain:            "deadshop.nonexistent.invalid",
			SearchURLTemplate: "https://deadshop.nonexistent.invalid/search?q={query}",
			Selectors:         map[string][]string{"title": {".title"}},
			Status:            retailer.StatusActive,
		},
	}}
	client := scrapex.NewClient(catalog, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	results, err := client.Scrape(ctx, "anything", []string{"deadshop", loopbackRegistryKey})
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two results, got %d", len(results))
	}
	if results[0].RetailerKey != "deadshop" || results[1].RetailerKey != loopbackRegistryKey {
		t.Errorf("expected results in request order, got %q then %q", results[0].RetailerKey, results[1].RetailerKey)
	}
	if results[1].Result == nil || !results[1].Result.Success {
		t.Errorf("expected goodshop to succeed despite deadshop failing, got %+v", results[1].Result)
	}
}
