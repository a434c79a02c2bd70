// internal/session/fingerprint.go
package session

import (
	"math/rand"
	"strconv"

	"github.com/pricelens/scrapex/internal/antidetect"
)

// platformProfile bundles the user-agent/platform/viewport triple drawn
// together so the three attributes stay mutually consistent (a Windows UA
// never pairs with a macOS platform string).
type platformProfile struct {
	userAgent string
	platform  string
	width     int
	height    int
}

var platformProfiles = []platformProfile{
	{
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		platform:  "Win32", width: 1920, height: 1080,
	},
	{
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		platform:  "MacIntel", width: 1680, height: 1050,
	},
	{
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		platform:  "Linux x86_64", width: 1440, height: 900,
	},
}

var timezones = []string{
	"America/New_York", "America/Chicago", "America/Los_Angeles", "America/Denver",
}

var locales = []string{"en-US", "en-GB", "en-CA"}

var hardwareConcurrencyOptions = []int{4, 8, 12, 16}
var deviceMemoryOptions = []int{4, 8, 16}

// drawFingerprint draws a complete, mutually-consistent fingerprint from the
// curated distributions, delegating screen/WebGL spoofing to the existing
// antidetect generators so every spoofed value stays within their realistic
// presets (Intel UHD 620 / GTX 1660 Ti / Radeon RX 580 style profiles).
func drawFingerprint() Fingerprint {
	profile := platformProfiles[rand.Intn(len(platformProfiles))]

	screenSpoofing := antidetect.NewScreenSpoofing(true)
	screen := screenSpoofing.GetRandomFingerprint()

	webglSpoofing := antidetect.NewWebGLSpoofing(true)
	webgl := webglSpoofing.GetRandomProfile()

	return Fingerprint{
		UserAgent:           profile.userAgent,
		ViewportWidth:       profile.width,
		ViewportHeight:      profile.height,
		ScreenWidth:         screen.Width,
		ScreenHeight:        screen.Height,
		Timezone:            timezones[rand.Intn(len(timezones))],
		Locale:              locales[rand.Intn(len(locales))],
		Platform:            profile.platform,
		HardwareConcurrency: hardwareConcurrencyOptions[rand.Intn(len(hardwareConcurrencyOptions))],
		DeviceMemory:        deviceMemoryOptions[rand.Intn(len(deviceMemoryOptions))],
		WebGLVendor:         webgl.Vendor,
		WebGLRenderer:       webgl.Renderer,
	}
}

// stealthInitScript is injected before any page script runs. It overrides
// the standard automation tells the Chrome DevTools Protocol otherwise
// leaves in place.
func stealthInitScript(fp Fingerprint) string {
	return `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'platform', { get: () => '` + fp.Platform + `' });
Object.defineProperty(navigator, 'hardwareConcurrency', { get: () => ` + strconv.Itoa(fp.HardwareConcurrency) + ` });
Object.defineProperty(navigator, 'deviceMemory', { get: () => ` + strconv.Itoa(fp.DeviceMemory) + ` });
Object.defineProperty(navigator, 'languages', { get: () => ['` + fp.Locale + `'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3] });
const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
  parameters.name === 'notifications'
    ? Promise.resolve({ state: 'default' })
    : originalQuery(parameters)
);
const getParameter = WebGLRenderingContext.prototype.getParameter;
WebGLRenderingContext.prototype.getParameter = function(parameter) {
  if (parameter === 37445) { return '` + fp.WebGLVendor + `'; }
  if (parameter === 37446) { return '` + fp.WebGLRenderer + `'; }
  return getParameter.call(this, parameter);
};
const originalNow = performance.now.bind(performance);
performance.now = () => originalNow() + (Math.random() * 2 - 1);
`
}
