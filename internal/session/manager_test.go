// internal/session/manager_test.go
package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pricelens/scrapex/internal/browser"
)

// fakeBrowserClient is a minimal browser.BrowserClient double recording
// calls for assertions.
type fakeBrowserClient struct {
	html       string
	navigated  []string
	scripts    []string
	closed     bool
}

func (f *fakeBrowserClient) Navigate(ctx context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	return nil
}
func (f *fakeBrowserClient) GetHTML(ctx context.Context) (string, error) { return f.html, nil }
func (f *fakeBrowserClient) WaitForElement(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}
func (f *fakeBrowserClient) ExecuteScript(ctx context.Context, script string) (*interface{}, error) {
	f.scripts = append(f.scripts, script)
	return nil, nil
}
func (f *fakeBrowserClient) Screenshot(ctx context.Context) ([]byte, error) { return []byte("png"), nil }
func (f *fakeBrowserClient) SetViewport(ctx context.Context, width, height int) error { return nil }
func (f *fakeBrowserClient) Close() error { f.closed = true; return nil }

// fakePool hands back a single shared fakeBrowserClient.
type fakePool struct {
	client *fakeBrowserClient
	puts   int
}

func (p *fakePool) Get(ctx context.Context) (browser.BrowserClient, error) { return p.client, nil }
func (p *fakePool) Put(c browser.BrowserClient) error                      { p.puts++; return nil }
func (p *fakePool) Close() error                                           { return nil }
func (p *fakePool) Size() int                                              { return 1 }

func newTestManager(html string) (*Manager, *fakePool) {
	pool := &fakePool{client: &fakeBrowserClient{html: html}}
	cfg := Config{
		MaxConcurrentSessions: 2,
		PerDomainMinDelay:     10 * time.Millisecond,
		JitterMin:             1 * time.Millisecond,
		JitterMax:             2 * time.Millisecond,
		NavigationTimeout:     time.Second,
	}
	return NewManager(cfg, pool, nil, nil), pool
}

func TestLeaseAndReleaseSession(t *testing.T) {
	mgr, pool := newTestManager("<html></html>")

	sess, err := mgr.LeaseSession(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("LeaseSession returned error: %v", err)
	}
	if sess.Fingerprint.UserAgent == "" {
		t.Error("expected a non-empty fingerprint user agent")
	}
	if len(pool.client.scripts) == 0 {
		t.Error("expected the stealth init script to have been executed")
	}

	mgr.Release(sess)
	if pool.puts != 1 {
		t.Errorf("expected exactly one Put call after Release, got %d", pool.puts)
	}
}

func TestSemaphoreBoundsConcurrentSessions(t *testing.T) {
	mgr, _ := newTestManager("<html></html>")
	mgr.cfg.MaxConcurrentSessions = 1
	mgr.sem = make(chan struct{}, 1)

	sess1, err := mgr.LeaseSession(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("first LeaseSession failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := mgr.LeaseSession(ctx, "example.com"); err == nil {
		t.Error("expected second LeaseSession to block until timeout with semaphore exhausted")
	}

	mgr.Release(sess1)
}

func TestSolveChallengeNoMarkerIsNone(t *testing.T) {
	mgr, _ := newTestManager("<html><body>Normal page</body></html>")
	sess, _ := mgr.LeaseSession(context.Background(), "example.com")
	defer mgr.Release(sess)

	outcome, err := mgr.SolveChallenge(context.Background(), sess)
	if err != nil {
		t.Fatalf("SolveChallenge returned error: %v", err)
	}
	if outcome != ChallengeNone {
		t.Errorf("expected ChallengeNone, got %v", outcome)
	}
}

func TestSolveChallengeNoSolverIsUnsolved(t *testing.T) {
	mgr, _ := newTestManager(`<html><body>Please solve this captcha</body></html>`)
	sess, _ := mgr.LeaseSession(context.Background(), "example.com")
	defer mgr.Release(sess)

	outcome, err := mgr.SolveChallenge(context.Background(), sess)
	if err != nil {
		t.Fatalf("SolveChallenge returned error: %v", err)
	}
	if outcome != ChallengeUnsolved {
		t.Errorf("expected ChallengeUnsolved without a configured solver, got %v", outcome)
	}
}

func TestAwaitDomainSlotEnforcesMinimumSpacing(t *testing.T) {
	mgr, _ := newTestManager("<html></html>")
	mgr.SetDomainRateLimit("slow.example", 30*time.Millisecond)
	mgr.cfg.JitterMin, mgr.cfg.JitterMax = 0, 0

	ctx := context.Background()
	start := time.Now()
	if err := mgr.awaitDomainSlot(ctx, "slow.example"); err != nil {
		t.Fatalf("first awaitDomainSlot returned error: %v", err)
	}
	if err := mgr.awaitDomainSlot(ctx, "slow.example"); err != nil {
		t.Fatalf("second awaitDomainSlot returned error: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 30*time.Millisecond {
		t.Errorf("expected at least the configured delay between calls, got %v", elapsed)
	}
}

func TestAwaitDomainSlotCancelledByContext(t *testing.T) {
	mgr, _ := newTestManager("<html></html>")
	mgr.SetDomainRateLimit("gated.example", time.Hour)

	ctx := context.Background()
	if err := mgr.awaitDomainSlot(ctx, "gated.example"); err != nil {
		t.Fatalf("first call should consume the initial burst token: %v", err)
	}

	shortCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := mgr.awaitDomainSlot(shortCtx, "gated.example"); err == nil {
		t.Error("expected the second call to block past the context deadline and return an error")
	}
}

func TestNavigatePropagatesToClient(t *testing.T) {
	mgr, pool := newTestManager("<html></html>")
	mgr.cfg.PerDomainMinDelay = 0
	mgr.cfg.JitterMin = time.Millisecond
	mgr.cfg.JitterMax = 2 * time.Millisecond

	sess, _ := mgr.LeaseSession(context.Background(), "example.com")
	defer mgr.Release(sess)

	if err := mgr.Navigate(context.Background(), sess, "https://example.com/search"); err != nil {
		t.Fatalf("Navigate returned error: %v", err)
	}
	found := false
	for _, u := range pool.client.navigated {
		if strings.Contains(u, "example.com/search") {
			found = true
		}
	}
	if !found {
		t.Error("expected Navigate to call through to the underlying browser client")
	}
}
