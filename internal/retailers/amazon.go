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

const amazonBaseURL = "https://www.amazon.com"

// Amazon searches amazon.com search results. Prices are in USD.
type Amazon struct {
	fetch  Fetcher
	logger *slog.Logger
}

func NewAmazon(fetch Fetcher, logger *slog.Logger) *Amazon {
	return &Amazon{
		fetch:  fetch,
		logger: logger.With("retailer", models.RetailerAmazon),
	}
}

func (s *Amazon) Retailer() models.Retailer {
	return models.RetailerAmazon
}

func (s *Amazon) Search(ctx context.Context, productName string) (match *models.ProductMatch, err error) {
	defer recoverSearch(s.logger, models.RetailerAmazon, productName, &match, &err)

	params := map[string]string{
		"k":   productName,
		"ref": "nb_sb_noss",
	}

	body, err := s.fetch.Fetch(ctx, amazonBaseURL+"/s", params)
	if err != nil {
		return nil, fmt.Errorf("fetch amazon results: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse amazon results: %w", err)
	}

	result := doc.Find(`div[data-component-type="s-search-result"]`).First()
	if result.Length() == 0 {
		s.logger.Warn("no product results", "product", productName)
		return nil, ErrNoResults
	}

	link := result.Find("a.a-link-normal.s-no-outline").First()
	href, ok := link.Attr("href")
	if !ok {
		s.logger.Warn("no product URL", "product", productName)
		return nil, ErrNoProductURL
	}

	name := models.UnknownProductName
	title := result.Find("span.a-size-medium.a-color-base.a-text-normal").First()
	if title.Length() == 0 {
		title = result.Find("span.a-size-base-plus.a-color-base.a-text-normal").First()
	}
	if title.Length() > 0 {
		name = strings.TrimSpace(title.Text())
	}

	priceNode := result.Find("span.a-price > span.a-offscreen").First()
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
		Retailer: models.RetailerAmazon,
		Name:     name,
		Price:    price,
		URL:      amazonBaseURL + href,
	}, nil
}
