// test/utils/test_utils.go
package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pricelens/scrapex/internal/extract"
)

// TestServer provides a mock HTTP server for testing
type TestServer struct {
	Server *httptest.Server
	Routes map[string]string
}

// NewTestServer creates a new test server with predefined routes
func NewTestServer(routes map[string]string) *TestServer {
	ts := &TestServer{
		Routes: routes,
	}

	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if r.URL.RawQuery != "" {
			path += "?" + r.URL.RawQuery
		}

		if content, exists := ts.Routes[path]; exists {
			fmt.Fprint(w, content)
		} else {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "Not Found")
		}
	}))

	return ts
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// URL returns the base URL of the test server
func (ts *TestServer) URL() string {
	return ts.Server.URL
}

// AssertFieldExtraction checks that extract.FromHTML pulls the expected
// value for one selector-keyed field out of html.
func AssertFieldExtraction(t *testing.T, field string, selectors []string, html string, expected string) {
	t.Helper()

	record, err := extract.FromHTML(html, "https://shop.example/p/1", "testshop", map[string][]string{field: selectors})
	if err != nil {
		t.Fatalf("extract.FromHTML failed: %v", err)
		return
	}

	var got string
	switch field {
	case "title":
		got = record.Title
	case "price":
		got = fmt.Sprintf("%v", record.Price)
	case "description":
		got = record.Description
	default:
		t.Fatalf("AssertFieldExtraction does not know field %q", field)
	}

	if got != expected {
		t.Errorf("field %s: expected %q, got %q", field, expected, got)
	}
}

// AssertNoError checks that no error occurred
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// AssertError checks that an error occurred
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got none", msg)
	}
}

// AssertEqual checks if two values are equal
func AssertEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertContains checks if a string contains a substring
func AssertContains(t *testing.T, haystack, needle, msg string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("%s: %q does not contain %q", msg, haystack, needle)
	}
}

// AssertNotEmpty checks if a string is not empty
func AssertNotEmpty(t *testing.T, value, msg string) {
	t.Helper()
	if strings.TrimSpace(value) == "" {
		t.Errorf("%s: value is empty", msg)
	}
}

// Product is mock catalog data used to generate test HTML fixtures.
type Product struct {
	Title       string  `json:"title"`
	Price       string  `json:"price"`
	Description string  `json:"description"`
	Stock       string  `json:"stock"`
	Rating      float64 `json:"rating"`
}

// GenerateMockProducts creates test product data
func GenerateMockProducts(count int) []Product {
	products := make([]Product, count)
	for i := 0; i < count; i++ {
		products[i] = Product{
			Title:       fmt.Sprintf("Product %d", i+1),
			Price:       fmt.Sprintf("$%d.99", 100+i*10),
			Description: fmt.Sprintf("Description for product %d", i+1),
			Stock:       "In Stock",
			Rating:      4.0 + float64(i%5)*0.2,
		}
	}
	return products
}

// CreateProductHTML generates HTML for a product using the generic
// .title/.price/.description/.stock/.rating classes; these do not match
// the built-in retailer catalog's site-specific selectors.
func CreateProductHTML(product Product) string {
	return fmt.Sprintf(`
		<div class="product">
			<h1 class="title">%s</h1>
			<div class="price">%s</div>
			<div class="description">%s</div>
			<div class="stock">%s</div>
			<div class="rating">%.1f/5</div>
		</div>
	`, product.Title, product.Price, product.Description, product.Stock, product.Rating)
}
