// internal/orchestrator/types.go
package orchestrator

import (
	"time"

	"github.com/pricelens/scrapex/internal/extract"
)

// Strategy is one of the fixed tactics for fetching a URL, ordered by
// increasing cost.
type Strategy string

const (
	StrategyDirectAPI      Strategy = "direct_api"
	StrategySimpleHTTP     Strategy = "simple_http"
	StrategyStealthBrowser Strategy = "stealth_browser"
	StrategyFullBrowser    Strategy = "full_browser"
)

// strategyOrder is the cost-ascending escalation sequence.
var strategyOrder = []Strategy{
	StrategyDirectAPI,
	StrategySimpleHTTP,
	StrategyStealthBrowser,
	StrategyFullBrowser,
}

// strategyProfile carries the per-strategy defaults from spec §4.4's table.
type strategyProfile struct {
	costTier      int
	usesProxy     bool
	usesBrowser   bool
	maxRetries    int
	timeout       time.Duration
}

var strategyProfiles = map[Strategy]strategyProfile{
	StrategyDirectAPI:      {costTier: 1, usesProxy: false, usesBrowser: false, maxRetries: 3, timeout: 30 * time.Second},
	StrategySimpleHTTP:     {costTier: 2, usesProxy: true, usesBrowser: false, maxRetries: 3, timeout: 30 * time.Second},
	StrategyStealthBrowser: {costTier: 3, usesProxy: true, usesBrowser: true, maxRetries: 3, timeout: 30 * time.Second},
	StrategyFullBrowser:    {costTier: 4, usesProxy: true, usesBrowser: true, maxRetries: 3, timeout: 60 * time.Second},
}

// FailureKind categorizes terminal and retryable errors per spec §7's
// taxonomy.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureTransientNetwork
	FailureAntiBotDetected
	FailureChallengeUnsolvable
	FailureConfiguration
	FailureResourceExhaustion
	FailureFatal
)

// antiBotIndicators are substrings whose presence in an error or response
// body signals an active anti-bot defense rather than a transient fault.
var antiBotIndicators = []string{
	"robot check", "captcha", "security challenge", "access denied", "are you a human",
}

// StrategyStat is the learning state for one (domain, strategy) pair.
type StrategyStat struct {
	Attempts      int64
	Successes     int64
	AvgLatency    time.Duration // EWMA, alpha=0.2
	LastOutcomeAt time.Time
}

func (s StrategyStat) successRate() float64 {
	if s.Attempts == 0 {
		return 0.8 // optimistic default for untested combinations
	}
	return float64(s.Successes) / float64(s.Attempts)
}

// SiteConfig is the subset of retailer configuration the orchestrator
// consults: rate limiting, required-strategy pinning, and priority tier
// used in strategy scoring.
type SiteConfig struct {
	Domain           string
	PriorityTier     float64 // 1 = high, 2 = medium, 3 = low
	RequiredStrategy Strategy // empty means "not pinned"
	RateLimit        time.Duration
	MaxRetries       int
	Timeout          time.Duration
}

// DefaultSiteConfig is used for domains with no matching retailer entry.
func DefaultSiteConfig(domain string) SiteConfig {
	return SiteConfig{
		Domain:       domain,
		PriorityTier: 2,
		RateLimit:    2 * time.Second,
		MaxRetries:   3,
		Timeout:      30 * time.Second,
	}
}

// ScrapingResult is the orchestrator's always-returned, never-thrown output.
type ScrapingResult struct {
	URL            string
	Success        bool
	MethodUsed     Strategy
	Error          error
	FailureKind    FailureKind
	RetryCount     int
	CaptchaSolved  bool
	Record         *extract.ProductRecord
	ElapsedTime    time.Duration
}
