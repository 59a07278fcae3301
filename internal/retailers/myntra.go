package retailers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/dealwatch/internal/models"
)

const myntraBaseURL = "https://www.myntra.com"

// Myntra searches myntra.com category listing pages. Myntra filters
// by URL path rather than query parameters, so the query is first
// routed to a men-<slug> category page. Prices are in INR.
type Myntra struct {
	fetch  Fetcher
	logger *slog.Logger
}

func NewMyntra(fetch Fetcher, logger *slog.Logger) *Myntra {
	return &Myntra{
		fetch:  fetch,
		logger: logger.With("retailer", models.RetailerMyntra),
	}
}

func (s *Myntra) Retailer() models.Retailer {
	return models.RetailerMyntra
}

// Category exposes the slug the given query routes to.
func (s *Myntra) Category(query string) string {
	return myntraCategories.classify(query)
}

func (s *Myntra) Search(ctx context.Context, productName string) (match *models.ProductMatch, err error) {
	defer recoverSearch(s.logger, models.RetailerMyntra, productName, &match, &err)

	query := mensQuery(productName)
	category := myntraCategories.classify(query)
	searchURL := fmt.Sprintf("%s/men-%s", myntraBaseURL, category)

	params := map[string]string{
		"q": query,
	}

	body, err := s.fetch.Fetch(ctx, searchURL, params)
	if err != nil {
		return nil, fmt.Errorf("fetch myntra results: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse myntra results: %w", err)
	}

	result := doc.Find("li.product-base").First()
	if result.Length() == 0 {
		s.logger.Warn("no product results", "product", productName, "category", category)
		return nil, ErrNoResults
	}

	link := result.Find("a.product-link").First()
	href, ok := link.Attr("href")
	if !ok {
		s.logger.Warn("no product URL", "product", productName)
		return nil, ErrNoProductURL
	}

	// Listings split the title into a brand heading and a product
	// description; display name is their concatenation.
	brand := strings.TrimSpace(result.Find("h3.product-brand").First().Text())
	desc := result.Find("h4.product-product").First()
	descText := models.UnknownProductName
	if desc.Length() > 0 {
		descText = strings.TrimSpace(desc.Text())
	}
	name := strings.TrimSpace(brand + " " + descText)

	priceNode := result.Find("div.product-price > span.product-discountedPrice").First()
	if priceNode.Length() == 0 {
		priceNode = result.Find("div.product-price > span").First()
	}
	if priceNode.Length() == 0 {
		s.logger.Warn("no price", "product", productName)
		return nil, ErrNoPrice
	}

	priceText := strings.TrimSpace(priceNode.Text())
	price, err := parseRupeePrice(priceText)
	if err != nil {
		s.logger.Warn("unparseable price", "product", productName, "price_text", priceText)
		return nil, fmt.Errorf("parse price %q: %w", priceText, err)
	}

	return &models.ProductMatch{
		Retailer: models.RetailerMyntra,
		Name:     name,
		Price:    price,
		URL:      myntraBaseURL + href,
	}, nil
}
