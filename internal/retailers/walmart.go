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

const walmartBaseURL = "https://www.walmart.com"

// Walmart searches walmart.com search results. Prices are in USD.
type Walmart struct {
	fetch  Fetcher
	logger *slog.Logger
}

func NewWalmart(fetch Fetcher, logger *slog.Logger) *Walmart {
	return &Walmart{
		fetch:  fetch,
		logger: logger.With("retailer", models.RetailerWalmart),
	}
}

func (s *Walmart) Retailer() models.Retailer {
	return models.RetailerWalmart
}

func (s *Walmart) Search(ctx context.Context, productName string) (match *models.ProductMatch, err error) {
	defer recoverSearch(s.logger, models.RetailerWalmart, productName, &match, &err)

	params := map[string]string{
		"q": productName,
	}

	body, err := s.fetch.Fetch(ctx, walmartBaseURL+"/search", params)
	if err != nil {
		return nil, fmt.Errorf("fetch walmart results: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse walmart results: %w", err)
	}

	result := doc.Find("div[data-item-id]").First()
	if result.Length() == 0 {
		s.logger.Warn("no product results", "product", productName)
		return nil, ErrNoResults
	}

	link := result.Find(`a[link-identifier="linkText"]`).First()
	href, ok := link.Attr("href")
	if !ok {
		s.logger.Warn("no product URL", "product", productName)
		return nil, ErrNoProductURL
	}

	name := models.UnknownProductName
	title := link.Find("span.lh-title").First()
	if title.Length() > 0 {
		name = strings.TrimSpace(title.Text())
	}

	priceNode := result.Find(`div[data-automation-id="product-price"] span.w_iUH7`).First()
	if priceNode.Length() == 0 {
		s.logger.Warn("no price", "product", productName)
		return nil, ErrNoPrice
	}

	priceText := strings.TrimSpace(priceNode.Text())
	price, err := parseDecimalPrice(priceText)
	if err != nil {
		s.logger.Warn("unparseable price", "product", productName, "price_text", priceText)
		return nil, fmt.Errorf("parse price %q: %w", priceText, err)
	}

	return &models.ProductMatch{
		Retailer: models.RetailerWalmart,
		Name:     name,
		Price:    price,
		URL:      walmartBaseURL + href,
	}, nil
}
