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

const ajioBaseURL = "https://www.ajio.com"

// Ajio searches ajio.com category listing pages. Ajio routes by
// numeric taxonomy ID under /s/<id> with the free-text query left to
// a parameter. Prices are in INR.
type Ajio struct {
	fetch  Fetcher
	logger *slog.Logger
}

func NewAjio(fetch Fetcher, logger *slog.Logger) *Ajio {
	return &Ajio{
		fetch:  fetch,
		logger: logger.With("retailer", models.RetailerAjio),
	}
}

func (s *Ajio) Retailer() models.Retailer {
	return models.RetailerAjio
}

// Category exposes the taxonomy ID the given query routes to.
func (s *Ajio) Category(query string) string {
	return ajioCategories.classify(query)
}

func (s *Ajio) Search(ctx context.Context, productName string) (match *models.ProductMatch, err error) {
	defer recoverSearch(s.logger, models.RetailerAjio, productName, &match, &err)

	query := mensQuery(productName)
	category := ajioCategories.classify(query)
	searchURL := fmt.Sprintf("%s/s/%s", ajioBaseURL, category)

	params := map[string]string{
		"query":   query,
		"gclid":   "men",
		"segment": "Men",
	}

	body, err := s.fetch.Fetch(ctx, searchURL, params)
	if err != nil {
		return nil, fmt.Errorf("fetch ajio results: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ajio results: %w", err)
	}

	result := doc.Find("div.item.rilrtl-products-list__item").First()
	if result.Length() == 0 {
		s.logger.Warn("no product results", "product", productName, "category", category)
		return nil, ErrNoResults
	}

	link := result.Find("a.rilrtl-products-list__link").First()
	href, ok := link.Attr("href")
	if !ok {
		s.logger.Warn("no product URL", "product", productName)
		return nil, ErrNoProductURL
	}

	brand := strings.TrimSpace(result.Find("div.brand").First().Text())
	desc := result.Find("div.nameCls").First()
	descText := models.UnknownProductName
	if desc.Length() > 0 {
		descText = strings.TrimSpace(desc.Text())
	}
	name := strings.TrimSpace(brand + " " + descText)

	priceNode := result.Find("span.price").First()
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
		Retailer: models.RetailerAjio,
		Name:     name,
		Price:    price,
		URL:      ajioBaseURL + href,
	}, nil
}
