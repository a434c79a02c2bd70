// internal/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/pricelens/scrapex/internal/extract"
	"github.com/pricelens/scrapex/internal/proxy"
	"github.com/pricelens/scrapex/internal/retailer"
	"github.com/pricelens/scrapex/internal/security"
	"github.com/pricelens/scrapex/internal/session"
	"github.com/pricelens/scrapex/internal/utils"
)

// Sentinel failures classifyFailure checks for with errors.Is, so wrapping
// context (the domain, the strategy, the offending status code) can be
// added freely without breaking classification.
var (
	errAntiBotDetected    = errors.New("anti-bot indicator detected")
	errChallengeUnsolvable = errors.New("challenge unsolvable")
	errResourceExhausted  = errors.New("resource exhausted")
)

var orchestratorLogger = utils.NewComponentLogger("strategy-orchestrator")

// ewmaAlpha is the smoothing factor for per-(domain,strategy) latency
// tracking. It is larger than the proxy pool's success-rate alpha (0.1),
// so strategy latency adapts faster.
const ewmaAlpha = 0.2

// userAgents is the pool simple_http draws a random entry from.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// directAPIEndpoints are the well-known paths direct_api probes.
var directAPIEndpoints = []string{"/api/products/search", "/api/v1/search", "/search.json"}

// Orchestrator is the C4 Strategy Orchestrator: it picks, executes,
// escalates, and learns from scraping strategies for each target URL.
type Orchestrator struct {
	registry  *retailer.Registry
	proxies   *proxy.Pool
	sessions  *session.Manager
	client    *http.Client
	validator *security.SecurityValidator

	mu    sync.Mutex
	stats map[string]*StrategyStat // key: domain + "\x00" + strategy
}

// New builds an Orchestrator. sessions may be nil if no browser-based
// strategy will ever be invoked (direct_api/simple_http only).
func New(reg *retailer.Registry, proxies *proxy.Pool, sessions *session.Manager) *Orchestrator {
	return &Orchestrator{
		registry:  reg,
		proxies:   proxies,
		sessions:  sessions,
		client:    &http.Client{Timeout: 30 * time.Second},
		validator: security.NewSecurityValidator(security.DefaultSecurityConfig()),
		stats:     make(map[string]*StrategyStat),
	}
}

func statKey(domain string, strat Strategy) string {
	return domain + "\x00" + string(strat)
}

// Scrape never throws: every terminal condition is reported through the
// returned ScrapingResult.
func (o *Orchestrator) Scrape(ctx context.Context, targetURL string) *ScrapingResult {
	start := time.Now()

	if check := o.validator.ValidateURL(targetURL); !check.Valid {
		return &ScrapingResult{
			URL:         targetURL,
			Success:     false,
			FailureKind: FailureConfiguration,
			Error:       fmt.Errorf("orchestrator: target URL rejected by security validator: %s", check.Issues[0].Message),
			ElapsedTime: time.Since(start),
		}
	}

	domain, retailerKey := domainAndKey(targetURL)

	site := o.resolveSiteConfig(domain, retailerKey)

	var result *ScrapingResult
	strategies := o.candidateStrategies(site)

	for _, strat := range strategies {
		result = o.runStrategy(ctx, targetURL, retailerKey, site, strat)
		if result.Success {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	if result == nil {
		result = &ScrapingResult{URL: targetURL, Success: false, FailureKind: FailureConfiguration,
			Error: fmt.Errorf("orchestrator: no strategies available for %s", targetURL)}
	}
	result.ElapsedTime = time.Since(start)
	return result
}

// candidateStrategies returns the escalation sequence to try: the pinned
// strategy alone if RequiredStrategy is set, otherwise the full cost-ordered
// list starting from the highest-scoring one.
func (o *Orchestrator) candidateStrategies(site SiteConfig) []Strategy {
	if site.RequiredStrategy != "" {
		return []Strategy{site.RequiredStrategy}
	}

	best := o.bestStrategy(site)
	ordered := make([]Strategy, 0, len(strategyOrder))
	ordered = append(ordered, best)
	for _, s := range strategyOrder {
		if s != best {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// bestStrategy computes successRate/priorityTier for every strategy and
// returns the argmax.
func (o *Orchestrator) bestStrategy(site SiteConfig) Strategy {
	o.mu.Lock()
	defer o.mu.Unlock()

	var winner Strategy
	bestScore := -1.0
	for _, strat := range strategyOrder {
		stat := o.stats[statKey(site.Domain, strat)]
		var rate float64
		if stat == nil {
			rate = 0.8
		} else {
			rate = stat.successRate()
		}
		tier := site.PriorityTier
		if tier <= 0 {
			tier = 1
		}
		score := rate / tier
		if score > bestScore {
			bestScore = score
			winner = strat
		}
	}
	return winner
}

// runStrategy executes one strategy up to its configured max retries with
// exponential backoff, escalating immediately past remaining retries (but
// not past the whole call) on an anti-bot indicator.
func (o *Orchestrator) runStrategy(ctx context.Context, targetURL, retailerKey string, site SiteConfig, strat Strategy) *ScrapingResult {
	profile := strategyProfiles[strat]
	maxRetries := profile.maxRetries
	if site.MaxRetries > 0 {
		maxRetries = site.MaxRetries
	}
	timeout := profile.timeout
	if site.Timeout > 0 {
		timeout = site.Timeout
	}

	var lastErr error
	var lastKind FailureKind
	captchaSolved := false

	for attempt := 0; attempt < maxRetries; attempt++ {
		attemptStart := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		record, solved, err := o.attempt(attemptCtx, targetURL, retailerKey, site, strat)
		cancel()
		attemptLatency := time.Since(attemptStart)

		captchaSolved = captchaSolved || solved

		if err == nil {
			o.recordOutcome(site.Domain, strat, true, attemptLatency)
			return &ScrapingResult{
				URL: targetURL, Success: true, MethodUsed: strat,
				RetryCount: attempt, CaptchaSolved: captchaSolved, Record: record,
			}
		}

		lastErr = err
		lastKind = classifyFailure(err)
		o.recordOutcome(site.Domain, strat, false, attemptLatency)

		if lastKind == FailureAntiBotDetected {
			orchestratorLogger.Warn(fmt.Sprintf("anti-bot indicator on %s via %s, skipping remaining retries", targetURL, strat))
			break
		}

		if ctx.Err() != nil {
			break
		}

		backoff := time.Duration(1<<uint(attempt))*time.Second + time.Duration(1+rand.Intn(2))*time.Second
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
		}
	}

	return &ScrapingResult{
		URL: targetURL, Success: false, MethodUsed: strat,
		FailureKind: lastKind, Error: lastErr, CaptchaSolved: captchaSolved,
		RetryCount: maxRetries,
	}
}

// attempt performs a single fetch+extract cycle for strat.
func (o *Orchestrator) attempt(ctx context.Context, targetURL, retailerKey string, site SiteConfig, strat Strategy) (*extract.ProductRecord, bool, error) {
	switch strat {
	case StrategyDirectAPI:
		return o.attemptDirectAPI(ctx, targetURL, retailerKey)
	case StrategySimpleHTTP:
		return o.attemptSimpleHTTP(ctx, targetURL, retailerKey)
	case StrategyStealthBrowser:
		return o.attemptBrowser(ctx, targetURL, retailerKey, site, false)
	case StrategyFullBrowser:
		return o.attemptBrowser(ctx, targetURL, retailerKey, site, true)
	default:
		return nil, false, fmt.Errorf("orchestrator: unknown strategy %q", strat)
	}
}

// attemptDirectAPI is largely a stub per spec's allowance: without concrete
// per-retailer API specs, it always reports not-supported.
func (o *Orchestrator) attemptDirectAPI(ctx context.Context, targetURL, retailerKey string) (*extract.ProductRecord, bool, error) {
	return nil, false, fmt.Errorf("orchestrator: direct_api not supported for %s (no endpoint spec for any of %v)", retailerKey, directAPIEndpoints)
}

// attemptSimpleHTTP acquires a proxy, issues one GET with a random UA, and
// hands the body to the Extractor. Reports the outcome back to the proxy
// pool.
func (o *Orchestrator) attemptSimpleHTTP(ctx context.Context, targetURL, retailerKey string) (*extract.ProductRecord, bool, error) {
	var proxyURL string
	if o.proxies != nil {
		entry, err := o.proxies.Acquire()
		if err != nil {
			return nil, false, fmt.Errorf("orchestrator: no proxy available: %w: %w", errResourceExhausted, err)
		}
		proxyURL = entry.URL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("orchestrator: invalid request: %w", err)
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := o.client.Do(req)
	latency := time.Since(start)
	if proxyURL != "" {
		o.proxies.ReportOutcome(proxyURL, err == nil, latency)
	}
	if err != nil {
		return nil, false, fmt.Errorf("orchestrator: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("orchestrator: failed to read response body: %w", err)
	}
	html := string(body)

	if resp.StatusCode >= 400 {
		return nil, false, fmt.Errorf("orchestrator: http status %d", resp.StatusCode)
	}
	if containsAntiBotIndicator(html) {
		return nil, false, fmt.Errorf("orchestrator: %w in response", errAntiBotDetected)
	}

	selectors := o.selectorsFor(retailerKey)
	record, err := extract.FromHTML(html, targetURL, retailerKey, selectors)
	if err != nil {
		return nil, false, fmt.Errorf("orchestrator: extraction failed: %w", err)
	}
	return record, false, nil
}

// attemptBrowser leases a stealth session, navigates, attempts challenge
// resolution, retrieves content, and extracts. extended selects the
// full_browser behavior profile.
func (o *Orchestrator) attemptBrowser(ctx context.Context, targetURL, retailerKey string, site SiteConfig, extended bool) (*extract.ProductRecord, bool, error) {
	if o.sessions == nil {
		return nil, false, fmt.Errorf("orchestrator: no session manager configured for browser strategies")
	}

	sess, err := o.sessions.LeaseSession(ctx, site.Domain)
	if err != nil {
		return nil, false, fmt.Errorf("orchestrator: failed to lease session: %w", err)
	}
	defer o.sessions.Release(sess)

	if site.RateLimit > 0 {
		o.sessions.SetDomainRateLimit(site.Domain, site.RateLimit)
	}

	var navErr error
	if extended {
		navErr = o.sessions.NavigateExtended(ctx, sess, targetURL)
	} else {
		navErr = o.sessions.Navigate(ctx, sess, targetURL)
	}
	if navErr != nil {
		return nil, false, fmt.Errorf("orchestrator: navigation failed: %w", navErr)
	}

	outcome, err := o.sessions.SolveChallenge(ctx, sess)
	if err != nil {
		orchestratorLogger.Warn(fmt.Sprintf("challenge detection error: %v", err))
	}
	solved := outcome == session.ChallengeSolved
	if outcome == session.ChallengeUnsolved {
		return nil, false, fmt.Errorf("orchestrator: %w", errChallengeUnsolvable)
	}

	html, err := o.sessions.GetContent(ctx, sess)
	if err != nil {
		return nil, solved, fmt.Errorf("orchestrator: failed to read page content: %w", err)
	}
	if containsAntiBotIndicator(html) {
		return nil, solved, fmt.Errorf("orchestrator: %w in rendered page", errAntiBotDetected)
	}

	selectors := o.selectorsFor(retailerKey)
	record, err := extract.FromHTML(html, targetURL, retailerKey, selectors)
	if err != nil {
		return nil, solved, fmt.Errorf("orchestrator: extraction failed: %w", err)
	}
	return record, solved, nil
}

func (o *Orchestrator) selectorsFor(retailerKey string) map[string][]string {
	if o.registry == nil {
		return nil
	}
	cfg, err := o.registry.Get(retailerKey)
	if err != nil {
		return nil
	}
	return cfg.Selectors
}

// resolveSiteConfig matches a known retailer entry, falling back to
// generic defaults when the domain isn't in the catalog.
func (o *Orchestrator) resolveSiteConfig(domain, retailerKey string) SiteConfig {
	if o.registry != nil {
		if cfg, err := o.registry.Get(retailerKey); err == nil {
			var required Strategy
			if cfg.RequiredStrategy != "" {
				required = Strategy(cfg.RequiredStrategy)
			}
			tier := 2.0
			switch cfg.Priority {
			case retailer.PriorityHigh:
				tier = 1
			case retailer.PriorityMedium:
				tier = 2
			case retailer.PriorityLow:
				tier = 3
			}
			return SiteConfig{
				Domain: domain, PriorityTier: tier, RequiredStrategy: required,
				RateLimit: cfg.RateLimit, MaxRetries: cfg.MaxRetries, Timeout: cfg.Timeout,
			}
		}
	}
	return DefaultSiteConfig(domain)
}

// recordOutcome updates the (domain, strategy) statistic: monotonic
// attempts, successes <= attempts, latency folded into an EWMA.
func (o *Orchestrator) recordOutcome(domain string, strat Strategy, success bool, latency time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	key := statKey(domain, strat)
	stat, ok := o.stats[key]
	if !ok {
		stat = &StrategyStat{}
		o.stats[key] = stat
	}
	stat.Attempts++
	if success {
		stat.Successes++
	}
	if stat.AvgLatency == 0 {
		stat.AvgLatency = latency
	} else {
		stat.AvgLatency = time.Duration(ewmaAlpha*float64(latency) + (1-ewmaAlpha)*float64(stat.AvgLatency))
	}
	stat.LastOutcomeAt = time.Now()
}

// Stats returns a snapshot of all (domain, strategy) statistics, keyed
// "domain\x00strategy".
func (o *Orchestrator) Stats() map[string]StrategyStat {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]StrategyStat, len(o.stats))
	for k, v := range o.stats {
		out[k] = *v
	}
	return out
}

func classifyFailure(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}
	switch {
	case errors.Is(err, errAntiBotDetected):
		return FailureAntiBotDetected
	case errors.Is(err, errChallengeUnsolvable):
		return FailureChallengeUnsolvable
	case errors.Is(err, errResourceExhausted):
		return FailureResourceExhaustion
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "semaphore") {
		return FailureResourceExhaustion
	}
	return FailureTransientNetwork
}

func containsAntiBotIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range antiBotIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// domainAndKey derives the bare domain and a best-effort retailer key
// (the domain's first label, e.g. "amazon" from "www.amazon.com") from a
// URL. Callers that already know the retailer key should prefer passing it
// explicitly through a higher-level API.
//
// The registrable domain is resolved against the public suffix list so
// multi-label TLDs (co.uk, com.au, ...) yield the right label instead of
// the second-from-last segment; publicsuffix.EffectiveTLDPlusOne rejects
// bare IPs, so loopback test targets fall back to the raw host, where the
// derived key is always "0" regardless of port (an IPv4 loopback host has
// four dot-separated labels; the second-to-last is always "0").
func domainAndKey(targetURL string) (domain string, key string) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(targetURL, "https://"), "http://")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	host := trimmed
	if h, _, err := net.SplitHostPort(trimmed); err == nil {
		host = h
	}
	domain = strings.TrimPrefix(host, "www.")

	if registered, err := publicsuffix.EffectiveTLDPlusOne(domain); err == nil {
		domain = registered
	}

	parts := strings.Split(domain, ".")
	if len(parts) >= 2 {
		key = parts[len(parts)-2]
	} else {
		key = domain
	}
	return domain, key
}
