// Package comparator fans a product name out to every configured
// retailer strategy and reduces the results to a single best deal.
package comparator

import (
	"context"
	"log/slog"

	"github.com/maltedev/dealwatch/internal/models"
	"github.com/maltedev/dealwatch/internal/ratelimit"
	"github.com/maltedev/dealwatch/internal/retailers"
)

// Aggregator runs the configured strategies in order. One retailer
// failing to produce a match never aborts the others, and an
// all-absent outcome is a valid result, not an error.
//
// Prices are compared as raw numbers in each retailer's native
// currency; a set mixing currency domains (the default global set
// spans USD and INR) silently compares across currencies. Restrict
// the configured set to one currency domain when that matters —
// NewIndian does exactly that.
type Aggregator struct {
	strategies []retailers.Strategy
	limiter    ratelimit.RateLimiter
	logger     *slog.Logger
}

// New builds an aggregator over the given strategies, invoked in the
// given order. limiter may be nil to disable politeness delays.
func New(strategies []retailers.Strategy, limiter ratelimit.RateLimiter, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		strategies: strategies,
		limiter:    limiter,
		logger:     logger.With("component", "comparator"),
	}
}

// Retailers returns the configured retailer order.
func (a *Aggregator) Retailers() []models.Retailer {
	ids := make([]models.Retailer, len(a.strategies))
	for i, s := range a.strategies {
		ids[i] = s.Retailer()
	}
	return ids
}

// FindBestPrice returns the lowest-priced match across all configured
// retailers, or nil when no retailer produced one.
func (a *Aggregator) FindBestPrice(ctx context.Context, productName string) *models.ProductMatch {
	a.logger.Info("searching for best price", "product", productName)

	best := a.reduce(a.run(ctx, productName))
	if best == nil {
		a.logger.Warn("no deals found", "product", productName)
		return nil
	}

	a.logger.Info("best deal found",
		"product", productName,
		"price", best.Price,
		"retailer", best.Retailer)
	return best
}

// FindPrices returns the itemized per-retailer breakdown alongside
// the best match. BestMatch is nil iff every per-retailer entry is.
func (a *Aggregator) FindPrices(ctx context.Context, productName string) *models.AggregatedResult {
	a.logger.Info("searching for prices", "product", productName)

	results := a.run(ctx, productName)

	aggregated := &models.AggregatedResult{
		PerRetailer: make(map[models.Retailer]*models.ProductMatch, len(results)),
	}
	for _, r := range results {
		aggregated.PerRetailer[r.retailer] = r.match
	}
	aggregated.BestMatch = a.reduce(results)

	return aggregated
}

type retailerResult struct {
	retailer models.Retailer
	match    *models.ProductMatch
}

// run invokes every strategy sequentially in configured order.
// Results come back in that same order, absent entries included, so
// the reduction's tie-break is deterministic.
func (a *Aggregator) run(ctx context.Context, productName string) []retailerResult {
	results := make([]retailerResult, 0, len(a.strategies))

	for _, strategy := range a.strategies {
		retailer := strategy.Retailer()

		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				results = append(results, retailerResult{retailer: retailer})
				continue
			}
		}

		a.logger.Info("checking retailer", "retailer", retailer, "product", productName)

		match, err := strategy.Search(ctx, productName)
		if err != nil {
			a.logger.Warn("no match",
				"retailer", retailer,
				"product", productName,
				"reason", err)
			results = append(results, retailerResult{retailer: retailer})
			continue
		}

		a.logger.Info("found match",
			"retailer", retailer,
			"product", productName,
			"name", match.Name,
			"price", match.Price)
		results = append(results, retailerResult{retailer: retailer, match: match})
	}

	return results
}

// reduce picks the running minimum. Replacement requires a strictly
// lower price, so on a tie the earliest retailer in configured order
// wins.
func (a *Aggregator) reduce(results []retailerResult) *models.ProductMatch {
	var best *models.ProductMatch
	for _, r := range results {
		if r.match == nil {
			continue
		}
		if best == nil || r.match.Price < best.Price {
			best = r.match
		}
	}
	return best
}
