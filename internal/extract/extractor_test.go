// internal/extract/extractor_test.go
package extract

import "testing"

var sampleSelectors = map[string][]string{
	"title":        {"h1.product-title", ".title"},
	"price":        {".price-now", ".price"},
	"rating":       {".rating-value"},
	"availability": {".stock-status"},
	"description":  {".product-description"},
	"image":        {".product-image img"},
}

func TestFromHTMLHappyPath(t *testing.T) {
	html := `
<html><body>
  <h1 class="product-title">Wireless Mouse</h1>
  <span class="price-now">$24.99</span>
  <span class="rating-value">4.5 out of 5</span>
  <span class="stock-status">In Stock</span>
  <p class="product-description">A wireless mouse.</p>
  <div class="product-image"><img src="/images/mouse.jpg"></div>
</body></html>`

	record, err := FromHTML(html, "https://example.com/p/1", "example", sampleSelectors)
	if err != nil {
		t.Fatalf("FromHTML returned error: %v", err)
	}
	if record.Title != "Wireless Mouse" {
		t.Errorf("expected title 'Wireless Mouse', got %q", record.Title)
	}
	if record.Price != 24.99 {
		t.Errorf("expected price 24.99, got %v", record.Price)
	}
	if record.Currency != "USD" {
		t.Errorf("expected currency USD, got %s", record.Currency)
	}
	if record.Rating == nil || *record.Rating != 4.5 {
		t.Errorf("expected rating 4.5, got %v", record.Rating)
	}
	if record.Availability != "In Stock" {
		t.Errorf("expected availability 'In Stock', got %q", record.Availability)
	}
	if len(record.ImageURLs) != 1 || record.ImageURLs[0] != "https://example.com/images/mouse.jpg" {
		t.Errorf("expected one resolved image URL, got %v", record.ImageURLs)
	}
}

func TestFromHTMLFallbackSelectors(t *testing.T) {
	html := `<html><body><div class="title">Fallback Title</div><span class="price">€19.50</span></body></html>`

	record, err := FromHTML(html, "https://example.de/p/2", "example-de", sampleSelectors)
	if err != nil {
		t.Fatalf("FromHTML returned error: %v", err)
	}
	if record.Title != "Fallback Title" {
		t.Errorf("expected fallback title match, got %q", record.Title)
	}
	if record.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", record.Currency)
	}
	if record.Price != 19.50 {
		t.Errorf("expected price 19.50, got %v", record.Price)
	}
}

func TestFromHTMLMissingCoreFields(t *testing.T) {
	html := `<html><body><p class="product-description">Nothing else here.</p></body></html>`

	_, err := FromHTML(html, "https://example.com/p/3", "example", sampleSelectors)
	if err != ErrMissingCoreFields {
		t.Errorf("expected ErrMissingCoreFields, got %v", err)
	}
}

func TestNormalizeRatingClamps(t *testing.T) {
	cases := map[string]float64{
		"9.8 stars": 5,
		"0 stars":   0,
		"3.2 / 5":   3.2,
	}
	for input, want := range cases {
		got, err := normalizeRating(input)
		if err != nil {
			t.Fatalf("normalizeRating(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Errorf("normalizeRating(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNormalizePriceStripsThousandsSeparator(t *testing.T) {
	value, currency, err := normalizePrice("$1,299.00")
	if err != nil {
		t.Fatalf("normalizePrice returned error: %v", err)
	}
	if value != 1299.00 {
		t.Errorf("expected 1299.00, got %v", value)
	}
	if currency != "USD" {
		t.Errorf("expected USD, got %s", currency)
	}
}

func TestExtractImageURLsBoundedAndDeduped(t *testing.T) {
	html := `<html><body>
	  <div class="product-image">
	    <img src="/a.jpg"><img src="/a.jpg"><img src="/b.jpg"><img src="/c.jpg">
	    <img src="/d.jpg"><img src="/e.jpg"><img src="data:image/png;base64,abcd">
	  </div>
	</body></html>`

	record, err := FromHTML(html, "https://example.com/p/4", "example", sampleSelectors)
	if err != nil {
		t.Fatalf("FromHTML returned error: %v", err)
	}
	if len(record.ImageURLs) != MaxImageURLs {
		t.Errorf("expected %d image URLs, got %d", MaxImageURLs, len(record.ImageURLs))
	}
}
