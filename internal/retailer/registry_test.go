// internal/retailer/registry_test.go
package retailer

import (
	"strings"
	"testing"
)

func TestRegistryGet(t *testing.T) {
	reg := New()

	cfg, err := reg.Get("amazon")
	if err != nil {
		t.Fatalf("Get(amazon) returned error: %v", err)
	}
	if cfg.Domain != "amazon.com" {
		t.Errorf("expected domain amazon.com, got %s", cfg.Domain)
	}

	if _, err := reg.Get("not-a-real-retailer"); err == nil {
		t.Error("expected ErrNotFound for unknown key")
	}
}

func TestRegistryListActive(t *testing.T) {
	reg := New()

	all := reg.ListActive(nil, nil)
	if len(all) == 0 {
		t.Fatal("expected at least one active retailer")
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].priorityWeight() > all[i].priorityWeight() {
			t.Errorf("ListActive not sorted by priority: %s (%d) before %s (%d)",
				all[i-1].Key, all[i-1].priorityWeight(), all[i].Key, all[i].priorityWeight())
		}
	}

	high := PriorityHigh
	highOnly := reg.ListActive(nil, &high)
	for _, c := range highOnly {
		if c.Priority != PriorityHigh {
			t.Errorf("expected only high priority, got %v for %s", c.Priority, c.Key)
		}
	}

	electronics := CategoryElectronics
	electronicsOnly := reg.ListActive(&electronics, nil)
	for _, c := range electronicsOnly {
		if c.Category != CategoryElectronics {
			t.Errorf("expected only electronics, got %v for %s", c.Category, c.Key)
		}
	}
}

func TestBuildSearchURLs(t *testing.T) {
	reg := New()

	urls, err := reg.BuildSearchURLs("amazon", "wireless mouse", 2)
	if err != nil {
		t.Fatalf("BuildSearchURLs returned error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 URLs, got %d", len(urls))
	}
	if !strings.Contains(urls[0], "wireless+mouse") {
		t.Errorf("expected sanitized query in URL, got %s", urls[0])
	}

	if _, err := reg.BuildSearchURLs("amazon", "anything", 0); err == nil {
		t.Error("expected error for non-positive pageCount")
	}
	if _, err := reg.BuildSearchURLs("does-not-exist", "q", 1); err == nil {
		t.Error("expected error for unknown retailer key")
	}
}

func TestSanitizeQuery(t *testing.T) {
	cases := map[string]string{
		"wireless mouse!!":  "wireless+mouse",
		"  extra   spaces ": "extra+spaces",
		"c++ book":          "c+book",
	}
	for input, want := range cases {
		got := sanitizeQuery(input)
		if got != want {
			t.Errorf("sanitizeQuery(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestAddAndSetStatus(t *testing.T) {
	reg := New()

	err := reg.Add("testshop", Config{
		Key:               "testshop",
		Domain:            "testshop.example",
		SearchURLTemplate: "https://testshop.example/s?q={query}&p={page}",
		Selectors:         map[string][]string{"title": {".title"}},
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	cfg, err := reg.Get("testshop")
	if err != nil {
		t.Fatalf("Get(testshop) returned error: %v", err)
	}
	if cfg.Status != StatusActive {
		t.Errorf("expected default status active, got %v", cfg.Status)
	}

	if err := reg.SetStatus("testshop", StatusMaintenance); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	cfg, _ = reg.Get("testshop")
	if cfg.Status != StatusMaintenance {
		t.Errorf("expected status maintenance after SetStatus, got %v", cfg.Status)
	}

	if err := reg.Add("bad", Config{Key: "bad"}); err == nil {
		t.Error("expected error for config missing selectors/template")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	reg := New()
	catalog := reg.ExportAll()

	reg2 := &Registry{}
	reg2.Import(catalog)

	if len(reg2.ListActive(nil, nil)) != len(reg.ListActive(nil, nil)) {
		t.Error("import did not preserve the active retailer count")
	}
}
