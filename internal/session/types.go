// internal/session/types.go
package session

import (
	"time"

	"github.com/pricelens/scrapex/internal/browser"
)

// Fingerprint is a point-in-time snapshot of the observable browser
// attributes drawn at session creation; immutable for the session's
// lifetime.
type Fingerprint struct {
	UserAgent           string
	ViewportWidth       int
	ViewportHeight      int
	ScreenWidth         int
	ScreenHeight        int
	Timezone            string
	Locale              string
	Platform            string
	HardwareConcurrency int
	DeviceMemory        int
	WebGLVendor         string
	WebGLRenderer       string
}

// Session is a leased browser context bound to one fingerprint and
// (optionally) one proxy. Disposable: never shared across concurrent
// scrapes.
type Session struct {
	ID          string
	Client      browser.BrowserClient
	Fingerprint Fingerprint
	ProxyURL    string
	Domain      string
	CreatedAt   time.Time
	pagesInUse  int
}

// ChallengeOutcome is the result of Manager.SolveChallenge.
type ChallengeOutcome string

const (
	ChallengeSolved   ChallengeOutcome = "solved"
	ChallengeUnsolved ChallengeOutcome = "unsolved"
	ChallengeNone     ChallengeOutcome = "none"
)

// Config configures the Stealth Session Manager.
type Config struct {
	MaxConcurrentSessions int           // default 3
	PerDomainMinDelay     time.Duration // default 2s, overridden per retailer
	JitterMin             time.Duration // default 0.5s
	JitterMax             time.Duration // default 3s
	NavigationTimeout     time.Duration // default 30s
	BrowserHeadless       bool          // default true
	ReadingPauseMin       time.Duration // default 2s (3s for full_browser)
	ReadingPauseJitter    time.Duration // default 6s (5s for full_browser)
	ScrollPauseMin        time.Duration // default 0.5s, between scroll steps
	ScrollPauseJitter     time.Duration // default 1.5s, between scroll steps
}

// DefaultConfig returns the defaults named in spec §6.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentSessions: 3,
		PerDomainMinDelay:     2 * time.Second,
		JitterMin:             500 * time.Millisecond,
		JitterMax:             3 * time.Second,
		NavigationTimeout:     30 * time.Second,
		BrowserHeadless:       true,
		ReadingPauseMin:       2 * time.Second,
		ReadingPauseJitter:    6 * time.Second,
		ScrollPauseMin:        500 * time.Millisecond,
		ScrollPauseJitter:     1500 * time.Millisecond,
	}
}
