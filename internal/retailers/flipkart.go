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

const (
	flipkartBaseURL = "https://www.flipkart.com"

	// Facet filters pinning results to men's clothing. Flipkart
	// expects these as pre-encoded p[] query members, so they are
	// baked into the URL rather than passed as params.
	flipkartSearchURL = flipkartBaseURL + "/search" +
		"?p[]=facets.ideal_for%255B%255D%3DMen" +
		"&p[]=facets.category%255B%255D%3DClothing"
)

// Flipkart searches flipkart.com search results. Prices are in INR.
type Flipkart struct {
	fetch  Fetcher
	logger *slog.Logger
}

func NewFlipkart(fetch Fetcher, logger *slog.Logger) *Flipkart {
	return &Flipkart{
		fetch:  fetch,
		logger: logger.With("retailer", models.RetailerFlipkart),
	}
}

func (s *Flipkart) Retailer() models.Retailer {
	return models.RetailerFlipkart
}

func (s *Flipkart) Search(ctx context.Context, productName string) (match *models.ProductMatch, err error) {
	defer recoverSearch(s.logger, models.RetailerFlipkart, productName, &match, &err)

	params := map[string]string{
		"q":           mensQuery(productName),
		"otracker":    "search",
		"marketplace": "FLIPKART",
	}

	body, err := s.fetch.Fetch(ctx, flipkartSearchURL, params)
	if err != nil {
		return nil, fmt.Errorf("fetch flipkart results: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse flipkart results: %w", err)
	}

	result := doc.Find("div._1AtVbE").First()
	if result.Length() == 0 {
		s.logger.Warn("no product results", "product", productName)
		return nil, ErrNoResults
	}

	// Flipkart renders grid and list results with different link
	// classes; try them in order of how common they are.
	link := result.Find("a._1fQZEK, a._2rpwqI, a.s1Q9rs").First()
	href, ok := link.Attr("href")
	if !ok {
		s.logger.Warn("no product URL", "product", productName)
		return nil, ErrNoProductURL
	}

	name := models.UnknownProductName
	title := result.Find("div._4rR01T, a.s1Q9rs, div._2WkVRV").First()
	if title.Length() > 0 {
		name = strings.TrimSpace(title.Text())
	}

	priceNode := result.Find("div._30jeq3").First()
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
		Retailer: models.RetailerFlipkart,
		Name:     name,
		Price:    price,
		URL:      flipkartBaseURL + href,
	}, nil
}
