// pkg/scrapex/api.go
package scrapex

import (
	"context"
	"fmt"

	"github.com/pricelens/scrapex/internal/orchestrator"
	"github.com/pricelens/scrapex/internal/proxy"
	"github.com/pricelens/scrapex/internal/retailer"
	"github.com/pricelens/scrapex/internal/session"
)

// Re-exported collaborator types so an embedding application can assemble
// a Client without importing internal/ directly.
type (
	RetailerConfig  = retailer.Config
	RetailerCatalog = retailer.Catalog
	ProxyPoolConfig = proxy.PoolConfig
	SessionConfig   = session.Config
	BatchResult     = orchestrator.BatchResult
	ScrapingResult  = orchestrator.ScrapingResult
)

// Client is the public facade described by spec.md §2/§5: a caller
// submits (query, retailers) and gets back one result per retailer. It
// wires together the retailer registry, proxy pool, stealth session
// manager, and strategy orchestrator that do the actual work.
type Client struct {
	registry     *retailer.Registry
	orchestrator *orchestrator.Orchestrator
}

// NewClient builds a ready-to-use facade from a retailer catalog.
// proxies and sessions may be nil; the orchestrator then degrades to
// whichever strategies don't need them (direct_api, unproxied simple_http).
func NewClient(catalog retailer.Catalog, proxies *proxy.Pool, sessions *session.Manager) *Client {
	reg := retailer.New()
	reg.Import(catalog)
	return &Client{
		registry:     reg,
		orchestrator: orchestrator.New(reg, proxies, sessions),
	}
}

// NewClientFromRegistry builds a facade around an already-populated
// registry, for callers that manage the catalog themselves (e.g. an
// admin surface that adds/disables retailers at runtime).
func NewClientFromRegistry(reg *retailer.Registry, proxies *proxy.Pool, sessions *session.Manager) *Client {
	return &Client{registry: reg, orchestrator: orchestrator.New(reg, proxies, sessions)}
}

// Scrape runs query across retailers and returns one BatchResult per
// retailer, in the same order retailers was given, with sub-requests
// dispatched concurrently up to orchestrator.DefaultBatchConcurrency. A
// nil/empty retailers resolves to every active retailer in the catalog.
func (c *Client) Scrape(ctx context.Context, query string, retailers []string) ([]BatchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("scrapex: query must not be empty")
	}
	return c.orchestrator.ScrapeBatch(ctx, c.registry, query, retailers), nil
}

// Registry exposes the underlying retailer registry for admin operations
// (status changes, catalog export/import) without leaking orchestrator
// internals.
func (c *Client) Registry() *retailer.Registry { return c.registry }

// Stats returns the orchestrator's per-(domain, strategy) learning
// statistics, keyed "domain\x00strategy".
func (c *Client) Stats() map[string]orchestrator.StrategyStat {
	return c.orchestrator.Stats()
}
