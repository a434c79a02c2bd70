// internal/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pricelens/scrapex/internal/retailer"
)

func newTestOrchestrator(reg *retailer.Registry) *Orchestrator {
	return New(reg, nil, nil)
}

func TestScrapeRejectsURLFailingSecurityValidation(t *testing.T) {
	o := newTestOrchestrator(nil)

	result := o.Scrape(context.Background(), "javascript:alert(1)")
	if result.Success {
		t.Error("expected a security-rejected URL to fail")
	}
	if result.FailureKind != FailureConfiguration {
		t.Errorf("expected FailureConfiguration, got %v", result.FailureKind)
	}
	if result.Error == nil {
		t.Error("expected a non-nil error explaining the rejection")
	}
}

func TestBestStrategyDefaultsOptimistic(t *testing.T) {
	o := newTestOrchestrator(nil)
	site := SiteConfig{Domain: "untested.example", PriorityTier: 1}

	best := o.bestStrategy(site)
	if best != StrategyDirectAPI {
		t.Errorf("expected the first strategy in cost order to win ties, got %s", best)
	}
}

func TestBestStrategyPicksHigherSuccessRate(t *testing.T) {
	o := newTestOrchestrator(nil)
	site := SiteConfig{Domain: "scored.example", PriorityTier: 1}

	o.recordOutcome("scored.example", StrategySimpleHTTP, true, 10*time.Millisecond)
	o.recordOutcome("scored.example", StrategySimpleHTTP, true, 10*time.Millisecond)
	o.recordOutcome("scored.example", StrategyStealthBrowser, false, 10*time.Millisecond)

	best := o.bestStrategy(site)
	if best != StrategySimpleHTTP {
		t.Errorf("expected simple_http (100%% success) to win over stealth_browser (0%%), got %s", best)
	}
}

func TestCandidateStrategiesRespectsRequiredStrategy(t *testing.T) {
	o := newTestOrchestrator(nil)
	site := SiteConfig{Domain: "pinned.example", PriorityTier: 1, RequiredStrategy: StrategyFullBrowser}

	got := o.candidateStrategies(site)
	if len(got) != 1 || got[0] != StrategyFullBrowser {
		t.Errorf("expected only the pinned strategy, got %v", got)
	}
}

func TestRecordOutcomeIsMonotonic(t *testing.T) {
	o := newTestOrchestrator(nil)
	o.recordOutcome("m.example", StrategySimpleHTTP, true, time.Millisecond)
	o.recordOutcome("m.example", StrategySimpleHTTP, false, time.Millisecond)
	o.recordOutcome("m.example", StrategySimpleHTTP, true, time.Millisecond)

	stat := o.stats[statKey("m.example", StrategySimpleHTTP)]
	if stat.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", stat.Attempts)
	}
	if stat.Successes != 2 {
		t.Errorf("expected 2 successes, got %d", stat.Successes)
	}
	if stat.Successes > stat.Attempts {
		t.Error("successes must never exceed attempts")
	}
}

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		err  error
		want FailureKind
	}{
		{fmt.Errorf("orchestrator: %w in response", errAntiBotDetected), FailureAntiBotDetected},
		{fmt.Errorf("orchestrator: %w", errChallengeUnsolvable), FailureChallengeUnsolvable},
		{fmt.Errorf("orchestrator: no proxy available: %w: pool empty", errResourceExhausted), FailureResourceExhaustion},
		{errors.New("semaphore acquisition cancelled: context deadline exceeded"), FailureResourceExhaustion},
		{errors.New("dial tcp: connection refused"), FailureTransientNetwork},
	}
	for _, tt := range cases {
		got := classifyFailure(tt.err)
		if got != tt.want {
			t.Errorf("classifyFailure(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestAttemptSimpleHTTPExtractsRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1 class="title">Test Widget</h1><span class="price">$9.99</span></body></html>`))
	}))
	defer server.Close()

	reg := &retailer.Registry{}
	reg.Import(retailer.Catalog{Retailers: []retailer.Config{
		{
			Key:               "testshop",
			Domain:            "testshop.example",
			SearchURLTemplate: "https://testshop.example/s?q={query}",
			Selectors: map[string][]string{
				"title": {".title"},
				"price": {".price"},
			},
			Status: retailer.StatusActive,
		},
	}})

	o := newTestOrchestrator(reg)
	record, solved, err := o.attemptSimpleHTTP(context.Background(), server.URL, "testshop")
	if err != nil {
		t.Fatalf("attemptSimpleHTTP returned error: %v", err)
	}
	if solved {
		t.Error("simple_http should never report a solved challenge")
	}
	if record.Title != "Test Widget" {
		t.Errorf("expected extracted title 'Test Widget', got %q", record.Title)
	}
	if record.Price != 9.99 {
		t.Errorf("expected extracted price 9.99, got %v", record.Price)
	}
}

func TestAttemptSimpleHTTPDetectsAntiBotIndicator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Please complete this captcha to continue</body></html>`))
	}))
	defer server.Close()

	o := newTestOrchestrator(nil)
	_, _, err := o.attemptSimpleHTTP(context.Background(), server.URL, "unknown")
	if err == nil {
		t.Fatal("expected an error for anti-bot indicator in response")
	}
	if classifyFailure(err) != FailureAntiBotDetected {
		t.Errorf("expected FailureAntiBotDetected, got %v", classifyFailure(err))
	}
}

func TestAttemptDirectAPIAlwaysNotSupported(t *testing.T) {
	o := newTestOrchestrator(nil)
	_, _, err := o.attemptDirectAPI(context.Background(), "https://example.com/p", "example")
	if err == nil {
		t.Error("expected direct_api to report not-supported absent a concrete API spec")
	}
}

func TestScrapeNeverPanicsAndReturnsResult(t *testing.T) {
	o := newTestOrchestrator(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := o.Scrape(ctx, "https://nonexistent.invalid/search")
	if result == nil {
		t.Fatal("Scrape must always return a non-nil result")
	}
	if result.Success {
		t.Error("expected failure against an unreachable host with no session manager")
	}
	if result.Error == nil {
		t.Error("expected a terminal error to be recorded")
	}
}
