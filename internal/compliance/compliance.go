// internal/compliance/compliance.go
package compliance

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pricelens/scrapex/internal/utils"
)

var complianceLogger = utils.NewComponentLogger("compliance")

// Rule is one robots.txt directive: a path pattern and whether it is
// allowed for the user agent it was parsed under.
type Rule struct {
	Pattern string
	Allow   bool
}

// RobotsTxt is a parsed robots.txt document: per-user-agent rule lists,
// per-user-agent crawl delays, and any declared sitemaps.
type RobotsTxt struct {
	rules       map[string][]Rule
	crawlDelays map[string]time.Duration
	sitemaps    []string
}

// IsDisallowed reports whether path is blocked for userAgent, falling back
// to the wildcard "*" rule set when the agent has no specific entry. The
// first matching prefix rule wins, matching the conventional robots.txt
// longest-applicable-directive behavior closely enough for compliance
// advisory purposes.
func (r *RobotsTxt) IsDisallowed(userAgent, path string) bool {
	rules := r.rules[userAgent]
	if len(rules) == 0 {
		rules = r.rules["*"]
	}
	for _, rule := range rules {
		if strings.HasPrefix(path, rule.Pattern) {
			return !rule.Allow
		}
	}
	return false
}

// GetCrawlDelay returns the declared crawl delay for userAgent, falling
// back to the wildcard entry, or zero if neither is declared.
func (r *RobotsTxt) GetCrawlDelay(userAgent string) time.Duration {
	if delay, exists := r.crawlDelays[userAgent]; exists {
		return delay
	}
	if delay, exists := r.crawlDelays["*"]; exists {
		return delay
	}
	return 0
}

// GetSitemaps returns the sitemap URLs declared in the document.
func (r *RobotsTxt) GetSitemaps() []string {
	return r.sitemaps
}

// RobotsTxtParser parses raw robots.txt bytes.
type RobotsTxtParser struct{}

// NewRobotsTxtParser returns a RobotsTxtParser.
func NewRobotsTxtParser() *RobotsTxtParser {
	return &RobotsTxtParser{}
}

// Parse reads standard User-agent/Disallow/Allow/Crawl-delay/Sitemap
// directives. Unrecognized directives and comment/blank lines are
// ignored.
func (p *RobotsTxtParser) Parse(data []byte) (*RobotsTxt, error) {
	robots := &RobotsTxt{
		rules:       make(map[string][]Rule),
		crawlDelays: make(map[string]time.Duration),
		sitemaps:    []string{},
	}

	lines := strings.Split(string(data), "\n")
	currentUserAgent := "*"

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		directive := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(parts[1])

		switch directive {
		case "user-agent":
			currentUserAgent = value
		case "disallow":
			if value != "" {
				robots.rules[currentUserAgent] = append(robots.rules[currentUserAgent], Rule{
					Pattern: value,
					Allow:   false,
				})
			}
		case "allow":
			robots.rules[currentUserAgent] = append(robots.rules[currentUserAgent], Rule{
				Pattern: value,
				Allow:   true,
			})
		case "crawl-delay":
			if delay, err := time.ParseDuration(value + "s"); err == nil {
				robots.crawlDelays[currentUserAgent] = delay
			}
		case "sitemap":
			robots.sitemaps = append(robots.sitemaps, value)
		}
	}

	return robots, nil
}

// RobotsTxtFetcher retrieves and parses a site's robots.txt.
type RobotsTxtFetcher struct {
	client *http.Client
}

// NewRobotsTxtFetcher returns a fetcher with a bounded-timeout HTTP client.
func NewRobotsTxtFetcher() *RobotsTxtFetcher {
	return &RobotsTxtFetcher{client: &http.Client{Timeout: 10 * time.Second}}
}

// Fetch retrieves baseURL + "/robots.txt" and parses it. A 404 or any
// other 4xx/5xx status is treated as "no restrictions declared" rather than an
// error, matching the conventional robots.txt absence behavior.
func (f *RobotsTxtFetcher) Fetch(baseURL string) (*RobotsTxt, error) {
	resp, err := f.client.Get(strings.TrimRight(baseURL, "/") + "/robots.txt")
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		complianceLogger.Debug(fmt.Sprintf("robots.txt fetch returned %d for %s, treating as unrestricted", resp.StatusCode, baseURL))
		return &RobotsTxt{rules: make(map[string][]Rule), crawlDelays: make(map[string]time.Duration)}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to read robots.txt body: %w", err)
	}

	parser := NewRobotsTxtParser()
	return parser.Parse(data)
}

// gdprDomainSuffixes are the TLD/ccTLD suffixes treated as EU/GDPR
// jurisdictions. Best-effort: real jurisdiction depends on entity location,
// not domain suffix, so this is advisory only.
var gdprDomainSuffixes = []string{".de", ".fr", ".co.uk", ".eu", ".it", ".es", ".nl"}

// GDPRChecker flags domains likely subject to GDPR based on ccTLD.
type GDPRChecker struct{}

// NewGDPRChecker returns a GDPRChecker.
func NewGDPRChecker() *GDPRChecker {
	return &GDPRChecker{}
}

// RequiresGDPRCompliance reports whether domain's suffix matches a known
// EU ccTLD.
func (g *GDPRChecker) RequiresGDPRCompliance(domain string) bool {
	for _, suffix := range gdprDomainSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return true
		}
	}
	return false
}

// ComplianceReport summarizes the robots.txt and jurisdictional posture for
// one URL, advisory only: it never blocks a scrape, it informs the caller's
// own policy decision.
type ComplianceReport struct {
	RobotsCompliant     bool
	RecommendedDelay    time.Duration
	RiskLevel           string
	GDPRRequired        bool
	HasConsentMechanism bool
}

// ComplianceChecker combines robots.txt and GDPR-domain checks into a
// single advisory report.
type ComplianceChecker struct {
	gdpr *GDPRChecker
}

// NewComplianceChecker returns a ComplianceChecker.
func NewComplianceChecker() *ComplianceChecker {
	return &ComplianceChecker{gdpr: NewGDPRChecker()}
}

// GenerateReport evaluates url against robots (the already-fetched
// robots.txt for its host) and terms/privacy documents, which are accepted
// as opaque references for forward compatibility but are not interpreted
// here — absent a terms-of-service parser, risk level is derived from
// robots.txt compliance and GDPR applicability alone.
func (c *ComplianceChecker) GenerateReport(pageURL string, robots *RobotsTxt, terms, privacy interface{}) *ComplianceReport {
	path := "/"
	host := pageURL
	if parsed, err := url.Parse(pageURL); err == nil {
		if parsed.Path != "" {
			path = parsed.Path
		}
		host = parsed.Hostname()
	}

	disallowed := robots != nil && robots.IsDisallowed("*", path)
	delay := time.Duration(0)
	if robots != nil {
		delay = robots.GetCrawlDelay("*")
	}

	gdprRequired := c.gdpr.RequiresGDPRCompliance(strings.TrimPrefix(host, "www."))

	riskLevel := "low"
	if disallowed {
		riskLevel = "high"
	} else if gdprRequired {
		riskLevel = "medium"
	}

	return &ComplianceReport{
		RobotsCompliant:     !disallowed,
		RecommendedDelay:    delay,
		RiskLevel:           riskLevel,
		GDPRRequired:        gdprRequired,
		HasConsentMechanism: false,
	}
}
