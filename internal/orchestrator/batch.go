// internal/orchestrator/batch.go
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/pricelens/scrapex/internal/retailer"
)

// DefaultBatchConcurrency bounds how many per-retailer sub-requests run
// concurrently within one ScrapeBatch call (spec default: 10).
const DefaultBatchConcurrency = 10

// BatchResult is one retailer's outcome within a batch. Err is set for a
// retailer the registry couldn't resolve a search URL for (unknown key,
// bad pagination), or to ctx.Err() when ctx ends before that retailer's
// sub-request starts; it is never set merely because the scrape itself
// failed — that failure lives in Result.
type BatchResult struct {
	RetailerKey string
	URL         string
	Result      *ScrapingResult
	Err         error
}

// ScrapeBatch is the batch entry point spec.md describes: a caller submits
// (query, retailers) and gets back one result per retailer, in the same
// order the retailers were requested, with sub-requests run concurrently
// up to DefaultBatchConcurrency. An empty/nil retailerKeys resolves to
// every active retailer in reg.
func (o *Orchestrator) ScrapeBatch(ctx context.Context, reg *retailer.Registry, query string, retailerKeys []string) []BatchResult {
	keys := retailerKeys
	if len(keys) == 0 {
		for _, cfg := range reg.ListActive(nil, nil) {
			keys = append(keys, cfg.Key)
		}
	}

	results := make([]BatchResult, len(keys))
	sem := make(chan struct{}, DefaultBatchConcurrency)
	var wg sync.WaitGroup

	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = BatchResult{RetailerKey: key, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			urls, err := reg.BuildSearchURLs(key, query, 1)
			if err != nil {
				results[i] = BatchResult{RetailerKey: key, Err: fmt.Errorf("orchestrator: %w", err)}
				return
			}
			url := urls[0]
			results[i] = BatchResult{RetailerKey: key, URL: url, Result: o.Scrape(ctx, url)}
		}(i, key)
	}

	wg.Wait()
	return results
}
