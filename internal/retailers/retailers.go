// Package retailers implements per-retailer search strategies: query
// construction, category routing, fetching and first-result
// extraction. Every strategy degrades to a typed "no match" error
// instead of failing the caller; the aggregator treats any error as
// an absent result for that retailer.
package retailers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maltedev/dealwatch/internal/models"
)

var (
	ErrNoResults    = errors.New("no product results found")
	ErrNoProductURL = errors.New("no product URL found")
	ErrNoPrice      = errors.New("no price found")
	ErrBadPrice     = errors.New("price text not parseable")
)

// Fetcher is the outbound HTTP dependency of a strategy. Implemented
// by fetcher.Fetcher; narrowed here so tests can stub it.
type Fetcher interface {
	Fetch(ctx context.Context, url string, params map[string]string) ([]byte, error)
}

// Strategy searches one retailer for a product by free-text name.
// Search returns a non-nil match or an error describing why none was
// found; it never panics and never returns (nil, nil).
type Strategy interface {
	Retailer() models.Retailer
	Search(ctx context.Context, productName string) (*models.ProductMatch, error)
}

// mensQuery prepends a "men" facet to the query unless the text
// already mentions it. Substring check only; "women" also contains
// "men" and is deliberately left untouched, matching the search
// behavior this was tuned against.
func mensQuery(productName string) string {
	if strings.Contains(strings.ToLower(productName), "men") {
		return productName
	}
	return "men " + productName
}

// recoverSearch converts a panic inside a strategy into an absent
// result. Malformed retailer markup must never take down a refresh
// cycle.
func recoverSearch(logger *slog.Logger, retailer models.Retailer, productName string, match **models.ProductMatch, err *error) {
	if r := recover(); r != nil {
		logger.Error("search panicked",
			"retailer", retailer,
			"product", productName,
			"panic", r)
		*match = nil
		*err = fmt.Errorf("search for %q on %s: panic: %v", productName, retailer, r)
	}
}
