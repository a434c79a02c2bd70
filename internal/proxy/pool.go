// internal/proxy/pool.go
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pricelens/scrapex/internal/utils"
)

// ErrNoHealthyProxy is returned by Acquire when the pool is empty or every
// entry is inactive. It is never a fatal condition for a caller.
var ErrNoHealthyProxy = fmt.Errorf("proxy pool: no healthy proxy available")

// ProxyEntry is the adaptive pool's unit of bookkeeping. Unlike ProxyInstance
// (which tracks a single health-check sample), an entry carries an EWMA of
// success rate and latency so Acquire can rank live traffic quality instead
// of only the last probe.
type ProxyEntry struct {
	URL                 string    `json:"url"`
	Scheme              string    `json:"scheme"`
	Username            string    `json:"username,omitempty"`
	Password            string    `json:"password,omitempty"`
	Country             string    `json:"country,omitempty"`
	LatencyEWMA         float64   `json:"latency_ewma_ms"`
	SuccessRate         float64   `json:"success_rate"`
	LastCheckedAt       time.Time `json:"last_checked_at"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	Active              bool      `json:"active"`

	mu sync.Mutex
}

func (e *ProxyEntry) snapshot() ProxyEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := *e
	return cp
}

// KVStore is the narrow persistence collaborator named in spec §6: a
// key-value store used to survive restarts. Any backend (redis, boltdb, a
// SQL table keyed by string) can implement it.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	HSet(ctx context.Context, key, field, value string) error
	HGet(ctx context.Context, key, field string) (string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// ProxySource discovers candidate proxies from an external list (free or
// commercial). RefreshFromSources fans out across the configured
// PROXY_DISCOVERY_URLS, one ProxySource per URL.
type ProxySource interface {
	Discover(ctx context.Context) ([]*ProxyEntry, error)
}

// UpstreamSink is the load-balancer configuration collaborator (spec §6 item
// 5): it receives a validated text document and is responsible for its own
// validation and reload.
type UpstreamSink interface {
	Publish(ctx context.Context, document string) error
}

// PoolConfig configures the adaptive pool's background loops and thresholds.
type PoolConfig struct {
	HealthInterval     time.Duration // default 60s
	HealthCheckURL     string
	HealthBatchSize    int // default 10
	DiscoveryInterval  time.Duration // default 1h
	DiscoveryCap       int           // default 50 new entries per cycle
	FMax               int           // consecutive failures before deactivation, default 3
	SuccessRateAlpha    float64      // EWMA smoothing factor, default 0.1
	BackupThreshold     float64      // successRate below this is marked backup, default 0.7
	RequestTimeout      time.Duration
}

// DefaultPoolConfig returns the defaults named in spec §6.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		HealthInterval:    60 * time.Second,
		HealthCheckURL:    DefaultHealthCheckURL,
		HealthBatchSize:   10,
		DiscoveryInterval: time.Hour,
		DiscoveryCap:      50,
		FMax:              3,
		SuccessRateAlpha:  0.1,
		BackupThreshold:   0.7,
		RequestTimeout:    10 * time.Second,
	}
}

// PoolStats is the summary returned by Stats().
type PoolStats struct {
	Total           int           `json:"total"`
	Healthy         int           `json:"healthy"`
	Unhealthy       int           `json:"unhealthy"`
	AvgLatency      time.Duration `json:"avg_latency"`
	AvgSuccessRate  float64       `json:"avg_success_rate"`
}

// Pool is the C2 Proxy Pool Manager: a single lock-protected owner of the
// live proxy set, background health-check and discovery loops, and
// publication of an upstream load-balancer document. It is the adapted,
// spec-shaped sibling of ProxyManager (manager.go), reusing its HTTP-client and
// ticker-loop conventions.
type Pool struct {
	mu      sync.RWMutex
	entries map[string]*ProxyEntry

	cfg     PoolConfig
	kv      KVStore
	sources []ProxySource
	sink    UpstreamSink
	logger  utils.Logger

	client   *http.Client
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewPool creates a new adaptive proxy pool. kv and sink may be nil (no
// persistence / no publication target configured).
func NewPool(cfg PoolConfig, kv KVStore, sources []ProxySource, sink UpstreamSink) *Pool {
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = 60 * time.Second
	}
	if cfg.HealthBatchSize <= 0 {
		cfg.HealthBatchSize = 10
	}
	if cfg.DiscoveryInterval <= 0 {
		cfg.DiscoveryInterval = time.Hour
	}
	if cfg.DiscoveryCap <= 0 {
		cfg.DiscoveryCap = 50
	}
	if cfg.FMax <= 0 {
		cfg.FMax = 3
	}
	if cfg.SuccessRateAlpha <= 0 {
		cfg.SuccessRateAlpha = 0.1
	}
	if cfg.BackupThreshold <= 0 {
		cfg.BackupThreshold = 0.7
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.HealthCheckURL == "" {
		cfg.HealthCheckURL = DefaultHealthCheckURL
	}

	return &Pool{
		entries:  make(map[string]*ProxyEntry),
		cfg:      cfg,
		kv:       kv,
		sources:  sources,
		sink:     sink,
		logger:   utils.NewComponentLogger("proxy-pool"),
		client:   &http.Client{Timeout: cfg.RequestTimeout, Transport: &http.Transport{TLSClientConfig: GetDefaultTLSConfig()}},
		stopChan: make(chan struct{}),
	}
}

// Acquire returns the healthiest active proxy, scored as
// successRate / (latency + 1), or ErrNoHealthyProxy if the pool is empty or
// every entry is inactive. It never blocks.
func (p *Pool) Acquire() (*ProxyEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var best *ProxyEntry
	var bestScore float64
	for _, e := range p.entries {
		e.mu.Lock()
		active := e.Active
		score := e.SuccessRate / (e.LatencyEWMA + 1)
		e.mu.Unlock()
		if !active {
			continue
		}
		if best == nil || score > bestScore {
			best = e
			bestScore = score
		}
	}
	if best == nil {
		return nil, ErrNoHealthyProxy
	}
	snap := best.snapshot()
	return &snap, nil
}

// ReportOutcome updates successRate (EWMA, α≈0.1), latencyEWMA, and
// consecutiveFailures for the proxy identified by proxyURL. Deactivates the
// entry once consecutiveFailures reaches FMax.
func (p *Pool) ReportOutcome(proxyURL string, success bool, latency time.Duration) {
	p.mu.RLock()
	entry, ok := p.entries[proxyURL]
	p.mu.RUnlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	alpha := p.cfg.SuccessRateAlpha
	outcome := 0.0
	if success {
		outcome = 1.0
		entry.ConsecutiveFailures = 0
	} else {
		entry.ConsecutiveFailures++
	}
	entry.SuccessRate = alpha*outcome + (1-alpha)*entry.SuccessRate
	latencyMs := float64(latency.Milliseconds())
	if entry.LatencyEWMA == 0 {
		entry.LatencyEWMA = latencyMs
	} else {
		entry.LatencyEWMA = alpha*latencyMs + (1-alpha)*entry.LatencyEWMA
	}
	entry.LastCheckedAt = time.Now()
	if entry.ConsecutiveFailures >= p.cfg.FMax {
		entry.Active = false
	}
	active := entry.Active
	entry.mu.Unlock()

	if !active {
		p.logger.Warn(fmt.Sprintf("proxy %s deactivated after %d consecutive failures", proxyURL, p.cfg.FMax))
	}
	p.persist(entry)
}

// Add registers a new proxy entry (admin operation).
func (p *Pool) Add(entry *ProxyEntry) error {
	if entry == nil || entry.URL == "" {
		return fmt.Errorf("proxy pool: entry requires a URL")
	}
	if _, err := url.Parse(entry.URL); err != nil {
		return fmt.Errorf("proxy pool: invalid proxy URL %q: %w", entry.URL, err)
	}
	if entry.SuccessRate == 0 {
		entry.SuccessRate = 0.5
	}
	entry.Active = true

	p.mu.Lock()
	p.entries[entry.URL] = entry
	p.mu.Unlock()

	p.persist(entry)
	return nil
}

// Remove deletes a proxy entry (admin operation).
func (p *Pool) Remove(proxyURL string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.entries[proxyURL]; !ok {
		return fmt.Errorf("proxy pool: unknown proxy %q", proxyURL)
	}
	delete(p.entries, proxyURL)
	return nil
}

// RefreshFromSources pulls candidates from every configured ProxySource,
// deduplicates against the existing pool, and caps newly-added entries per
// cycle to prevent pool explosion.
func (p *Pool) RefreshFromSources(ctx context.Context) error {
	added := 0
	for _, source := range p.sources {
		if added >= p.cfg.DiscoveryCap {
			break
		}
		candidates, err := source.Discover(ctx)
		if err != nil {
			p.logger.Warn(fmt.Sprintf("proxy discovery source failed: %v", err))
			continue
		}
		for _, c := range candidates {
			if added >= p.cfg.DiscoveryCap {
				break
			}
			p.mu.RLock()
			_, exists := p.entries[c.URL]
			p.mu.RUnlock()
			if exists {
				continue
			}
			if err := p.Add(c); err != nil {
				p.logger.Warn(fmt.Sprintf("discovered proxy rejected: %v", err))
				continue
			}
			added++
		}
	}
	p.logger.Info(fmt.Sprintf("discovery cycle added %d proxies", added))
	return nil
}

// Stats summarizes current pool health.
func (p *Pool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := PoolStats{}
	var latencySum, rateSum float64
	for _, e := range p.entries {
		snap := e.snapshot()
		stats.Total++
		if snap.Active {
			stats.Healthy++
		} else {
			stats.Unhealthy++
		}
		latencySum += snap.LatencyEWMA
		rateSum += snap.SuccessRate
	}
	if stats.Total > 0 {
		stats.AvgLatency = time.Duration(latencySum/float64(stats.Total)) * time.Millisecond
		stats.AvgSuccessRate = rateSum / float64(stats.Total)
	}
	return stats
}

// PublishUpstream enumerates currently healthy proxies in round-robin order,
// marks entries below BackupThreshold as backup, validates the resulting
// document, and hands it to the configured UpstreamSink atomically (the sink
// itself performs validation/reload per spec §6).
func (p *Pool) PublishUpstream(ctx context.Context) (string, error) {
	p.mu.RLock()
	var healthy []ProxyEntry
	for _, e := range p.entries {
		snap := e.snapshot()
		if snap.Active {
			healthy = append(healthy, snap)
		}
	}
	p.mu.RUnlock()

	sort.Slice(healthy, func(i, j int) bool { return healthy[i].URL < healthy[j].URL })

	type upstreamEntry struct {
		URL    string `json:"url"`
		Backup bool   `json:"backup"`
	}
	doc := struct {
		GeneratedAt time.Time       `json:"generated_at"`
		Backends    []upstreamEntry `json:"backends"`
	}{GeneratedAt: time.Now()}

	for _, e := range healthy {
		doc.Backends = append(doc.Backends, upstreamEntry{
			URL:    e.URL,
			Backup: e.SuccessRate < p.cfg.BackupThreshold,
		})
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("proxy pool: failed to render upstream document: %w", err)
	}
	document := string(raw)

	if p.sink != nil {
		if err := p.sink.Publish(ctx, document); err != nil {
			return "", fmt.Errorf("proxy pool: upstream publish failed: %w", err)
		}
	}
	return document, nil
}

// Start launches the health-check and discovery background loops. Both keep
// running for the pool's lifetime and must not terminate on a single
// iteration's error.
func (p *Pool) Start(ctx context.Context) {
	p.wg.Add(2)
	go p.healthCheckLoop(ctx)
	go p.discoveryLoop(ctx)
}

// Stop signals both background loops to exit and waits for them.
func (p *Pool) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

func (p *Pool) healthCheckLoop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.cfg.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.runHealthCheckCycle(ctx)
		}
	}
}

func (p *Pool) runHealthCheckCycle(ctx context.Context) {
	p.mu.RLock()
	all := make([]*ProxyEntry, 0, len(p.entries))
	for _, e := range p.entries {
		all = append(all, e)
	}
	p.mu.RUnlock()

	batchSize := p.cfg.HealthBatchSize
	for start := 0; start < len(all); start += batchSize {
		end := start + batchSize
		if end > len(all) {
			end = len(all)
		}
		batch := all[start:end]

		var wg sync.WaitGroup
		for _, entry := range batch {
			wg.Add(1)
			go func(e *ProxyEntry) {
				defer wg.Done()
				p.checkOne(ctx, e)
			}(entry)
		}
		wg.Wait()

		if end < len(all) {
			time.Sleep(250 * time.Millisecond)
		}
	}
}

func (p *Pool) checkOne(ctx context.Context, entry *ProxyEntry) {
	proxyURL, err := url.Parse(entry.URL)
	if err != nil {
		p.ReportOutcome(entry.URL, false, 0)
		return
	}

	transport := &http.Transport{
		Proxy:           http.ProxyURL(proxyURL),
		TLSClientConfig: GetDefaultTLSConfig(),
	}
	client := &http.Client{Transport: transport, Timeout: p.cfg.RequestTimeout}

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.cfg.HealthCheckURL, nil)
	if err != nil {
		p.ReportOutcome(entry.URL, false, 0)
		return
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		// A timeout counts as a failure, never a fatal error.
		p.ReportOutcome(entry.URL, false, latency)
		return
	}
	defer resp.Body.Close()

	p.ReportOutcome(entry.URL, resp.StatusCode == http.StatusOK, latency)
}

func (p *Pool) discoveryLoop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.cfg.DiscoveryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			if err := p.RefreshFromSources(ctx); err != nil {
				p.logger.Warn(fmt.Sprintf("discovery cycle failed: %v", err))
			}
		}
	}
}

func (p *Pool) persist(entry *ProxyEntry) {
	if p.kv == nil {
		return
	}
	snap := entry.snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_ = p.kv.HSet(ctx, "scrapex:proxies", snap.URL, strconv.FormatFloat(snap.SuccessRate, 'f', -1, 64))
	_ = p.kv.SAdd(ctx, "scrapex:proxy_urls", snap.URL)
}

// LoadFromKV restores the pool's entries from the persisted set, used on
// restart so the in-memory view resumes from where it left off. Entries
// whose hash field is missing fall back to the default 0.5 success rate.
func (p *Pool) LoadFromKV(ctx context.Context) error {
	if p.kv == nil {
		return nil
	}
	urls, err := p.kv.SMembers(ctx, "scrapex:proxy_urls")
	if err != nil {
		return fmt.Errorf("proxy pool: failed to load persisted proxy set: %w", err)
	}
	for _, u := range urls {
		rateStr, err := p.kv.HGet(ctx, "scrapex:proxies", u)
		rate := 0.5
		if err == nil {
			if parsed, perr := strconv.ParseFloat(rateStr, 64); perr == nil {
				rate = parsed
			}
		}
		_ = p.Add(&ProxyEntry{URL: u, SuccessRate: rate})
	}
	return nil
}
