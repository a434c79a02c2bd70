// internal/retailer/catalog.go
package retailer

import "time"

// builtinCatalog returns the default three-tier retailer set seeded at
// startup, grounded on the original retailer manager's _initialize_retailers
// tiers: high (Amazon, Walmart, Target, Best Buy, eBay), medium (Costco,
// Home Depot, Lowe's, Newegg, Macy's, Overstock, Wayfair, Zappos, B&H
// Photo), low (Nordstrom).
func builtinCatalog() []Config {
	return []Config{
		{
			Key: "amazon", Name: "Amazon", Domain: "amazon.com",
			Category: CategoryGeneral, Priority: PriorityHigh,
			SearchURLTemplate: "https://www.amazon.com/s?k={query}&ref=sr_pg_{page}",
			BaseURL:           "https://www.amazon.com",
			RateLimit:         2 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title":        {"span.a-size-medium.a-color-base", "h2 a span"},
				"price":        {"span.a-price-whole", "span.a-price > span.a-offscreen"},
				"rating":       {"span.a-icon-alt"},
				"availability": {"div.a-row.a-size-base span"},
				"image":        {"img.s-image"},
				"link":         {"h2 a", "a.a-link-normal"},
			},
		},
		{
			Key: "walmart", Name: "Walmart", Domain: "walmart.com",
			Category: CategoryGeneral, Priority: PriorityHigh,
			SearchURLTemplate: "https://www.walmart.com/search?q={query}&page={page}",
			BaseURL:           "https://www.walmart.com",
			RateLimit:         1500 * time.Millisecond,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title":        {"span[data-automation-id='product-title']"},
				"price":        {"div[data-automation-id='product-price'] span"},
				"rating":       {"span.rating-number"},
				"availability": {"div.prod-ProductOffer-oosMsg"},
				"image":        {"img[data-testid='productTileImage']"},
				"link":         {"a[link-identifier]"},
			},
		},
		{
			Key: "target", Name: "Target", Domain: "target.com",
			Category: CategoryGeneral, Priority: PriorityHigh,
			SearchURLTemplate: "https://www.target.com/s?searchTerm={query}&page={page}",
			BaseURL:           "https://www.target.com",
			RateLimit:         1500 * time.Millisecond,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title":        {"a[data-test='product-title']"},
				"price":        {"span[data-test='current-price']"},
				"rating":       {"span[data-test='ratings']"},
				"availability": {"div[data-test='fulfillment-cell']"},
				"image":        {"img[data-test='product-image']"},
				"link":         {"a[data-test='product-title']"},
			},
		},
		{
			Key: "bestbuy", Name: "Best Buy", Domain: "bestbuy.com",
			Category: CategoryElectronics, Priority: PriorityHigh,
			SearchURLTemplate: "https://www.bestbuy.com/site/searchpage.jsp?st={query}&cp={page}",
			BaseURL:           "https://www.bestbuy.com",
			RateLimit:         2 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title":        {"h4.sku-title a"},
				"price":        {"div.priceView-customer-price span"},
				"rating":       {"p.visually-hidden"},
				"availability": {"div.fulfillment-add-to-cart-button"},
				"image":        {"img.product-image"},
				"link":         {"h4.sku-title a"},
			},
		},
		{
			Key: "ebay", Name: "eBay", Domain: "ebay.com",
			Category: CategoryGeneral, Priority: PriorityHigh,
			SearchURLTemplate: "https://www.ebay.com/sch/i.html?_nkw={query}&_pgn={page}",
			BaseURL:           "https://www.ebay.com",
			RateLimit:         time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        false,
			AntiBotMeasures:   false,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title":        {"div.s-item__title span"},
				"price":        {"span.s-item__price"},
				"rating":       {"span.clipped"},
				"availability": {"span.s-item__availability"},
				"image":        {"img.s-item__image-img"},
				"link":         {"a.s-item__link"},
			},
		},
		{
			Key: "costco", Name: "Costco", Domain: "costco.com",
			Category: CategoryWholesale, Priority: PriorityMedium,
			SearchURLTemplate: "https://www.costco.com/CatalogSearch?keyword={query}&currentPage={page}",
			BaseURL:           "https://www.costco.com",
			RateLimit:         3 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"div.description"}, "price": {"span.value"},
				"rating": {"span.bv_numReviews_text"}, "availability": {"div.stock-level-label"},
				"image": {"img.product-image"}, "link": {"a.product-tile-image"},
			},
		},
		{
			Key: "homedepot", Name: "Home Depot", Domain: "homedepot.com",
			Category: CategoryHomeImprovement, Priority: PriorityMedium,
			SearchURLTemplate: "https://www.homedepot.com/s/{query}?NCNI-5&page={page}",
			BaseURL:           "https://www.homedepot.com",
			RateLimit:         2 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"span.product-header__title"}, "price": {"div.price-format__main-price"},
				"rating": {"span.stars-reviews-count"}, "availability": {"div.fulfillment__content"},
				"image": {"img.product-image"}, "link": {"a.product-pod__link"},
			},
		},
		{
			Key: "lowes", Name: "Lowe's", Domain: "lowes.com",
			Category: CategoryHomeImprovement, Priority: PriorityMedium,
			SearchURLTemplate: "https://www.lowes.com/search?searchTerm={query}&page={page}",
			BaseURL:           "https://www.lowes.com",
			RateLimit:         2 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"a.asd_1a6k3t8"}, "price": {"span.price"},
				"rating": {"span.sr-only"}, "availability": {"div.availability"},
				"image": {"img.asd_1bdyiy9b"}, "link": {"a.asd_1a6k3t8"},
			},
		},
		{
			Key: "newegg", Name: "Newegg", Domain: "newegg.com",
			Category: CategoryElectronics, Priority: PriorityMedium,
			SearchURLTemplate: "https://www.newegg.com/p/pl?d={query}&page={page}",
			BaseURL:           "https://www.newegg.com",
			RateLimit:         1500 * time.Millisecond,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        false,
			AntiBotMeasures:   false,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"a.item-title"}, "price": {"li.price-current"},
				"rating": {"a.item-rating"}, "availability": {"p.item-promo"},
				"image": {"a.item-img img"}, "link": {"a.item-title"},
			},
		},
		{
			Key: "macys", Name: "Macy's", Domain: "macys.com",
			Category: CategoryFashion, Priority: PriorityMedium,
			SearchURLTemplate: "https://www.macys.com/shop/featured/{query}?id={page}",
			BaseURL:           "https://www.macys.com",
			RateLimit:         2 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"a.productDescLink"}, "price": {"div.prices"},
				"rating": {"div.rating-star-container"}, "availability": {"div.availability-msg"},
				"image": {"img.thumbnailImage"}, "link": {"a.productDescLink"},
			},
		},
		{
			Key: "overstock", Name: "Overstock", Domain: "overstock.com",
			Category: CategoryGeneral, Priority: PriorityMedium,
			SearchURLTemplate: "https://www.overstock.com/search?keywords={query}&page={page}",
			BaseURL:           "https://www.overstock.com",
			RateLimit:         2 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        false,
			AntiBotMeasures:   false,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"h3.product-title"}, "price": {"span.monetary-price"},
				"rating": {"span.reviews-count"}, "availability": {"div.availability"},
				"image": {"img.product-image"}, "link": {"a.product-link"},
			},
		},
		{
			Key: "wayfair", Name: "Wayfair", Domain: "wayfair.com",
			Category: CategoryHomeImprovement, Priority: PriorityMedium,
			SearchURLTemplate: "https://www.wayfair.com/keyword.php?keyword={query}&curpage={page}",
			BaseURL:           "https://www.wayfair.com",
			RateLimit:         2 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"div.ProductCard-name"}, "price": {"span.SFPrice"},
				"rating": {"span.ReviewStarsInlineRating"}, "availability": {"div.ProductCard-shipping"},
				"image": {"img.ProductCard-image"}, "link": {"a.ProductCard-link"},
			},
		},
		{
			Key: "zappos", Name: "Zappos", Domain: "zappos.com",
			Category: CategoryFashion, Priority: PriorityMedium,
			SearchURLTemplate: "https://www.zappos.com/search?term={query}&p={page}",
			BaseURL:           "https://www.zappos.com",
			RateLimit:         time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        false,
			AntiBotMeasures:   false,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"p.productName"}, "price": {"span.css-salePrice"},
				"rating": {"span.starRating"}, "availability": {"div.stockMessage"},
				"image": {"img.productImage"}, "link": {"a.productDisplay"},
			},
		},
		{
			Key: "bhphoto", Name: "B&H Photo", Domain: "bhphotovideo.com",
			Category: CategoryElectronics, Priority: PriorityMedium,
			SearchURLTemplate: "https://www.bhphotovideo.com/c/search?q={query}&page={page}",
			BaseURL:           "https://www.bhphotovideo.com",
			RateLimit:         2 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        false,
			AntiBotMeasures:   false,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"span[data-selenium='miniProductPageProductName']"}, "price": {"span[data-selenium='uppedDecimalPriceFirst']"},
				"rating": {"span[data-selenium='reviewStars']"}, "availability": {"div[data-selenium='stockStatus']"},
				"image": {"img[data-selenium='productImage']"}, "link": {"a[data-selenium='miniProductPageProductNameLink']"},
			},
		},
		{
			Key: "nordstrom", Name: "Nordstrom", Domain: "nordstrom.com",
			Category: CategoryFashion, Priority: PriorityLow,
			SearchURLTemplate: "https://www.nordstrom.com/sr?keyword={query}&page={page}",
			BaseURL:           "https://www.nordstrom.com",
			RateLimit:         2 * time.Second,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequiresJS:        true,
			AntiBotMeasures:   true,
			Currency:          "USD",
			Country:           "US",
			Status:            StatusActive,
			Selectors: map[string][]string{
				"title": {"h3._1Gvfo"}, "price": {"span._28CXI"},
				"rating": {"span._3rI2H"}, "availability": {"div._2Ia9N"},
				"image": {"img._1XkUp"}, "link": {"a._3SzTc"},
			},
		},
	}
}
