// internal/session/manager.go
package session

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pricelens/scrapex/internal/antidetect"
	"github.com/pricelens/scrapex/internal/browser"
	"github.com/pricelens/scrapex/internal/proxy"
	"github.com/pricelens/scrapex/internal/utils"
	"golang.org/x/time/rate"
)

// challengeMarkers are substrings in page content or URL that indicate an
// active CAPTCHA/Cloudflare challenge.
var challengeMarkers = []string{"captcha", "cf-challenge", "checking your browser", "cloudflare"}

// Manager is the C3 Stealth Session Manager: it leases and releases browser
// contexts bounded by a global concurrency semaphore, with a fingerprint
// drawn per session and per-domain pacing enforced before every navigation.
type Manager struct {
	cfg    Config
	pool   browser.Pool
	proxy  *proxy.Pool
	solver antidetect.CaptchaSolver

	sem chan struct{}

	// domainMu guards limiters: per-domain pacing is enforced with a
	// golang.org/x/time/rate.Limiter (burst 1, refilling at the
	// configured minimum delay) rather than a hand-rolled timestamp
	// map, so Wait's context-aware blocking composes directly with a
	// caller's cancellation instead of a bare time.Sleep.
	domainMu sync.Mutex
	limiters map[string]*rate.Limiter

	logger utils.Logger
}

// NewManager creates a Stealth Session Manager. pool supplies pooled
// browser.BrowserClient instances (internal/browser.NewBrowserPool); proxyPool
// and solver may be nil (proxy-less sessions, no challenge solving).
func NewManager(cfg Config, pool browser.Pool, proxyPool *proxy.Pool, solver antidetect.CaptchaSolver) *Manager {
	if cfg.MaxConcurrentSessions <= 0 {
		cfg.MaxConcurrentSessions = 3
	}
	if cfg.PerDomainMinDelay <= 0 {
		cfg.PerDomainMinDelay = 2 * time.Second
	}
	if cfg.JitterMin <= 0 {
		cfg.JitterMin = 500 * time.Millisecond
	}
	if cfg.JitterMax <= cfg.JitterMin {
		cfg.JitterMax = 3 * time.Second
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}

	return &Manager{
		cfg:      cfg,
		pool:     pool,
		proxy:    proxyPool,
		solver:   solver,
		sem:      make(chan struct{}, cfg.MaxConcurrentSessions),
		limiters: make(map[string]*rate.Limiter),
		logger:   utils.NewComponentLogger("stealth-session-manager"),
	}
}

// SetDomainRateLimit overrides the per-domain minimum delay, typically from
// the retailer's configured RateLimit, by installing a fresh rate.Limiter
// for domain.
func (m *Manager) SetDomainRateLimit(domain string, minDelay time.Duration) {
	if minDelay <= 0 {
		minDelay = m.cfg.PerDomainMinDelay
	}
	m.domainMu.Lock()
	defer m.domainMu.Unlock()
	m.limiters[domain] = rate.NewLimiter(rate.Every(minDelay), 1)
}

// limiterFor returns domain's rate.Limiter, lazily creating one from the
// manager's default PerDomainMinDelay on first use.
func (m *Manager) limiterFor(domain string) *rate.Limiter {
	m.domainMu.Lock()
	defer m.domainMu.Unlock()
	l, ok := m.limiters[domain]
	if !ok {
		l = rate.NewLimiter(rate.Every(m.cfg.PerDomainMinDelay), 1)
		m.limiters[domain] = l
	}
	return l
}

// LeaseSession acquires a semaphore permit, obtains (or creates) a browser
// context with a freshly drawn fingerprint, and enforces the per-domain
// rate limit before returning. Release is always the caller's
// responsibility; on any error here the permit is released before
// returning.
func (m *Manager) LeaseSession(ctx context.Context, domain string) (*Session, error) {
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("session: semaphore acquisition cancelled: %w", ctx.Err())
	}

	client, err := m.pool.Get(ctx)
	if err != nil {
		<-m.sem
		return nil, fmt.Errorf("session: failed to acquire browser: %w", err)
	}

	fp := drawFingerprint()
	if _, err := client.ExecuteScript(ctx, stealthInitScript(fp)); err != nil {
		m.logger.Warn(fmt.Sprintf("stealth init script failed: %v", err))
	}

	var proxyURL string
	if m.proxy != nil {
		if entry, err := m.proxy.Acquire(); err == nil {
			proxyURL = entry.URL
		}
	}

	sess := &Session{
		ID:          fmt.Sprintf("sess-%d-%d", time.Now().UnixNano(), rand.Intn(1_000_000)),
		Client:      client,
		Fingerprint: fp,
		ProxyURL:    proxyURL,
		Domain:      domain,
		CreatedAt:   time.Now(),
	}

	if err := m.awaitDomainSlot(ctx, domain); err != nil {
		m.Release(sess)
		return nil, fmt.Errorf("session: rate limit wait cancelled: %w", err)
	}
	return sess, nil
}

// Release tears down or returns the session and releases the semaphore
// permit. Guaranteed on all exit paths: callers should `defer
// mgr.Release(sess)` immediately after a successful LeaseSession.
func (m *Manager) Release(sess *Session) {
	if sess == nil {
		return
	}
	if err := m.pool.Put(sess.Client); err != nil {
		m.logger.Warn(fmt.Sprintf("failed to return browser to pool: %v", err))
	}
	select {
	case <-m.sem:
	default:
	}
}

// awaitDomainSlot blocks until domain's rate.Limiter admits the next
// request (at least PerDomainMinDelay since the last one, ctx-cancellable),
// then adds a randomized jitter sleep on top so request spacing isn't
// perfectly periodic.
func (m *Manager) awaitDomainSlot(ctx context.Context, domain string) error {
	if err := m.limiterFor(domain).Wait(ctx); err != nil {
		return err
	}

	if m.cfg.JitterMax > m.cfg.JitterMin {
		jitter := m.cfg.JitterMin + time.Duration(rand.Float64()*float64(m.cfg.JitterMax-m.cfg.JitterMin))
		if jitter > 0 {
			time.Sleep(jitter)
		}
	}
	return nil
}

// Navigate navigates to url with a bounded total timeout, waits implicitly
// via the browser client's own DOM-ready wait, then performs human-behavior
// emulation.
func (m *Manager) Navigate(ctx context.Context, sess *Session, targetURL string) error {
	navCtx, cancel := context.WithTimeout(ctx, m.cfg.NavigationTimeout)
	defer cancel()

	if err := sess.Client.Navigate(navCtx, targetURL); err != nil {
		return fmt.Errorf("session: navigation failed: %w", err)
	}
	m.simulateHumanBehavior(navCtx, sess, false)
	return nil
}

// NavigateExtended is identical to Navigate but used by the full_browser
// strategy: a longer minimum reading pause (ReadingPauseMin + 1s) and 2-4
// scroll steps instead of 2-5.
func (m *Manager) NavigateExtended(ctx context.Context, sess *Session, targetURL string) error {
	navCtx, cancel := context.WithTimeout(ctx, m.cfg.NavigationTimeout)
	defer cancel()

	if err := sess.Client.Navigate(navCtx, targetURL); err != nil {
		return fmt.Errorf("session: navigation failed: %w", err)
	}
	m.simulateHumanBehavior(navCtx, sess, true)
	return nil
}

// GetContent returns the current page HTML.
func (m *Manager) GetContent(ctx context.Context, sess *Session) (string, error) {
	html, err := sess.Client.GetHTML(ctx)
	if err != nil {
		return "", fmt.Errorf("session: failed to read page content: %w", err)
	}
	return html, nil
}

// SolveChallenge detects a CAPTCHA/Cloudflare challenge in the current page
// and, if present, delegates to the configured CAPTCHA solver. Never blocks
// indefinitely: the solver call is bounded by ctx.
func (m *Manager) SolveChallenge(ctx context.Context, sess *Session) (ChallengeOutcome, error) {
	html, err := sess.Client.GetHTML(ctx)
	if err != nil {
		return ChallengeNone, fmt.Errorf("session: failed to inspect page for challenge: %w", err)
	}

	lower := strings.ToLower(html)
	detected := false
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			detected = true
			break
		}
	}
	if !detected {
		return ChallengeNone, nil
	}

	if strings.Contains(lower, "cloudflare") || strings.Contains(lower, "cf-challenge") {
		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		time.Sleep(2 * time.Second)
		html, err := sess.Client.GetHTML(waitCtx)
		if err == nil && !strings.Contains(strings.ToLower(html), "cf-challenge") {
			return ChallengeSolved, nil
		}
		return ChallengeUnsolved, nil
	}

	if m.solver == nil {
		return ChallengeUnsolved, nil
	}

	screenshot, err := sess.Client.Screenshot(ctx)
	if err != nil {
		return ChallengeUnsolved, fmt.Errorf("session: failed to capture challenge screenshot: %w", err)
	}

	task := &antidetect.CaptchaTask{
		ID:      sess.ID,
		Type:    antidetect.ImageCaptcha,
		SiteURL: sess.Domain,
	}
	_ = screenshot // screenshot bytes would be attached to task.ImageData by a concrete solver adapter

	taskID, err := m.solver.SubmitTask(ctx, task)
	if err != nil {
		return ChallengeUnsolved, fmt.Errorf("session: captcha submission failed: %w", err)
	}
	solution, err := m.solver.GetResult(ctx, taskID)
	if err != nil || solution == nil || !solution.Success {
		return ChallengeUnsolved, nil
	}
	return ChallengeSolved, nil
}

// simulateHumanBehavior performs scroll/mouse/reading-pause emulation after
// a successful navigation, per spec §4.3. extended switches to the
// full_browser ranges described on NavigateExtended.
func (m *Manager) simulateHumanBehavior(ctx context.Context, sess *Session, extended bool) {
	if rand.Float64() < 0.7 {
		steps := 2 + rand.Intn(4)
		if extended {
			steps = 2 + rand.Intn(3)
		}
		m.humanScroll(ctx, sess, steps)
	}
	if rand.Float64() < 0.5 {
		m.humanMouseMove(ctx, sess, 1+rand.Intn(3))
	}

	readingPause := m.cfg.ReadingPauseMin
	readingJitter := m.cfg.ReadingPauseJitter
	if extended && m.cfg.ReadingPauseMin > 0 {
		readingPause = m.cfg.ReadingPauseMin + time.Second
		readingJitter = m.cfg.ReadingPauseJitter - time.Second
	}
	if readingJitter > 0 {
		time.Sleep(readingPause + time.Duration(rand.Float64()*float64(readingJitter)))
	} else {
		time.Sleep(readingPause)
	}
}

// humanScroll performs n smooth scroll steps of random distance separated
// by ScrollPauseMin..ScrollPauseMin+ScrollPauseJitter pauses.
func (m *Manager) humanScroll(ctx context.Context, sess *Session, steps int) {
	for i := 0; i < steps; i++ {
		distance := 200 + rand.Intn(600)
		script := fmt.Sprintf("window.scrollBy(0, %d)", distance)
		if _, err := sess.Client.ExecuteScript(ctx, script); err != nil {
			return
		}
		pause := m.cfg.ScrollPauseMin
		if m.cfg.ScrollPauseJitter > 0 {
			pause += time.Duration(rand.Float64() * float64(m.cfg.ScrollPauseJitter))
		}
		if pause > 0 {
			time.Sleep(pause)
		}
	}
}

// humanMouseMove moves to n random viewport coordinates.
func (m *Manager) humanMouseMove(ctx context.Context, sess *Session, moves int) {
	w, h := sess.Fingerprint.ViewportWidth, sess.Fingerprint.ViewportHeight
	for i := 0; i < moves; i++ {
		x, y := rand.Intn(max(w, 1)), rand.Intn(max(h, 1))
		script := fmt.Sprintf(
			"document.dispatchEvent(new MouseEvent('mousemove', {clientX: %d, clientY: %d}))", x, y,
		)
		if _, err := sess.Client.ExecuteScript(ctx, script); err != nil {
			return
		}
	}
}

// humanType types a string into the given selector character-by-character
// with 50-150ms inter-key delays, emulating natural typing cadence.
func (m *Manager) humanType(ctx context.Context, sess *Session, selector, text string) error {
	for _, r := range text {
		script := fmt.Sprintf(
			"(function(){var el=document.querySelector(%q); if(el){el.value=(el.value||'')+%q;}})()",
			selector, string(r),
		)
		if _, err := sess.Client.ExecuteScript(ctx, script); err != nil {
			return fmt.Errorf("session: humanType failed: %w", err)
		}
		time.Sleep(50*time.Millisecond + time.Duration(rand.Intn(100))*time.Millisecond)
	}
	return nil
}

// humanClick moves toward the target element with jittered coordinates
// before dispatching the click.
func (m *Manager) humanClick(ctx context.Context, sess *Session, selector string) error {
	jitterX, jitterY := rand.Intn(5), rand.Intn(5)
	script := fmt.Sprintf(
		`(function(){var el=document.querySelector(%q); if(el){var r=el.getBoundingClientRect();
		 el.dispatchEvent(new MouseEvent('click', {clientX: r.left+%d, clientY: r.top+%d, bubbles:true}));}})()`,
		selector, jitterX, jitterY,
	)
	if _, err := sess.Client.ExecuteScript(ctx, script); err != nil {
		return fmt.Errorf("session: humanClick failed: %w", err)
	}
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
