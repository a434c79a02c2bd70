// internal/extract/extractor.go
package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/scrapex/internal/utils"
)

var extractLogger = utils.NewComponentLogger("extraction-layer")

// Pre-compiled regexes, following the field-extractor's convention of
// compiling once at package init rather than per call.
var (
	priceNumberRegex  = regexp.MustCompile(`[\d]+(?:[.,]\d+)?`)
	ratingNumberRegex = regexp.MustCompile(`[\d]+(?:\.\d+)?`)
)

// ErrMissingCoreFields is returned when both title and price are absent;
// every other field may be empty without failing the record.
var ErrMissingCoreFields = fmt.Errorf("extract: title and price both absent")

// FromHTML applies retailerSelectors (ordered fallback lists keyed by field
// name: title, price, rating, availability, description, image) against html and
// produces a ProductRecord. pageURL is used to resolve relative image
// sources and is recorded as SourceURL.
func FromHTML(html, pageURL, retailerKey string, selectors map[string][]string) (*ProductRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("extract: failed to parse HTML: %w", err)
	}

	record := &ProductRecord{
		SourceURL:   pageURL,
		RetailerKey: retailerKey,
		Currency:    "USD",
		ExtractedAt: time.Now(),
	}

	title := firstMatch(doc, selectors["title"])
	record.Title = strings.TrimSpace(title)

	priceText := firstMatch(doc, selectors["price"])
	price, currency, perr := normalizePrice(priceText)
	if perr == nil {
		record.Price = price
		if currency != "" {
			record.Currency = currency
		}
	}

	ratingText := firstMatch(doc, selectors["rating"])
	if rating, rerr := normalizeRating(ratingText); rerr == nil {
		record.Rating = &rating
	}

	record.Availability = strings.TrimSpace(firstMatch(doc, selectors["availability"]))
	record.Description = strings.TrimSpace(firstMatch(doc, selectors["description"]))
	record.ImageURLs = extractImageURLs(doc, selectors["image"], pageURL)

	if record.Title == "" && record.Price == 0 {
		return record, ErrMissingCoreFields
	}
	return record, nil
}

// firstMatch tries each selector in order and returns the text of the first
// one that matches a non-empty value.
func firstMatch(doc *goquery.Document, selectorList []string) string {
	for _, selector := range selectorList {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			return text
		}
		if attr, ok := sel.Attr("content"); ok && strings.TrimSpace(attr) != "" {
			return strings.TrimSpace(attr)
		}
	}
	return ""
}

// normalizePrice strips currency symbols and thousands separators, extracts
// the first decimal number, and records a detected non-USD currency symbol.
func normalizePrice(text string) (float64, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", fmt.Errorf("extract: empty price text")
	}

	currency := ""
	for symbol, code := range currencySymbols {
		if strings.Contains(text, symbol) {
			currency = code
			break
		}
	}

	match := priceNumberRegex.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return 0, currency, fmt.Errorf("extract: no numeric price found in %q", text)
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, currency, fmt.Errorf("extract: failed to parse price %q: %w", match, err)
	}
	return value, currency, nil
}

// normalizeRating extracts the first decimal in the text and clamps it to
// [0, 5].
func normalizeRating(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("extract: empty rating text")
	}
	match := ratingNumberRegex.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("extract: no numeric rating found in %q", text)
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("extract: failed to parse rating %q: %w", match, err)
	}
	if value < 0 {
		value = 0
	}
	if value > 5 {
		value = 5
	}
	return value, nil
}

// extractImageURLs collects up to MaxImageURLs absolute src URLs, resolving
// relatives against pageURL and skipping data: URIs.
func extractImageURLs(doc *goquery.Document, selectorList []string, pageURL string) []string {
	base, _ := url.Parse(pageURL)

	var urls []string
	seen := make(map[string]bool)

	for _, selector := range selectorList {
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if len(urls) >= MaxImageURLs {
				return false
			}
			src, ok := s.Attr("src")
			if !ok {
				src, ok = s.Attr("data-src")
			}
			if !ok || src == "" || strings.HasPrefix(src, "data:") {
				return true
			}

			resolved := src
			if parsed, err := url.Parse(src); err == nil && base != nil {
				resolved = base.ResolveReference(parsed).String()
			}
			if seen[resolved] {
				return true
			}
			seen[resolved] = true
			urls = append(urls, resolved)
			return len(urls) < MaxImageURLs
		})
		if len(urls) >= MaxImageURLs {
			break
		}
	}
	if len(urls) == 0 {
		extractLogger.Debug("no image URLs matched any configured selector")
	}
	return urls
}
