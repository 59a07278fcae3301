// Package scheduler drives the periodic refresh cycle: re-price every
// watched item, persist improvements and raise price-drop events.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/maltedev/dealwatch/internal/comparator"
	"github.com/maltedev/dealwatch/internal/events"
	"github.com/maltedev/dealwatch/internal/models"
)

// ItemStore is the persistence dependency of the refresh cycle.
// Implemented by database.DB.
type ItemStore interface {
	ListItems(ctx context.Context) ([]*models.WatchItem, error)
	UpdateItemPrice(ctx context.Context, id int64, price float64, url string, retailer models.Retailer) error
	RecordObservation(ctx context.Context, itemID int64, match *models.ProductMatch) error
}

// PriceFinder is the discovery dependency. Implemented by
// comparator.Aggregator.
type PriceFinder interface {
	FindBestPrice(ctx context.Context, productName string) *models.ProductMatch
}

// DropPublisher emits price-drop events. Implemented by
// events.Publisher.
type DropPublisher interface {
	PublishPriceDrop(ctx context.Context, payload *events.PriceDropPayload) error
}

type Config struct {
	UpdateInterval       time.Duration
	DropThresholdPercent float64
}

type Scheduler struct {
	store     ItemStore
	finder    PriceFinder
	publisher DropPublisher
	cfg       Config
	logger    *slog.Logger
}

func New(store ItemStore, finder PriceFinder, publisher DropPublisher, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = 30 * time.Minute
	}
	return &Scheduler{
		store:     store,
		finder:    finder,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With("component", "scheduler"),
	}
}

// Run refreshes all items on the configured interval until ctx ends.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.cfg.UpdateInterval)

	ticker := time.NewTicker(s.cfg.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.RefreshAll(ctx)
		}
	}
}

// RefreshAll re-prices every item on the watch list. Per-item
// failures are logged and skipped; the cycle always visits every
// item. Returns the number of price drops detected.
func (s *Scheduler) RefreshAll(ctx context.Context) int {
	s.logger.Info("starting price update")

	items, err := s.store.ListItems(ctx)
	if err != nil {
		s.logger.Error("failed to load watch list", "error", err)
		return 0
	}

	drops := 0
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warn("refresh interrupted", "error", err)
			return drops
		}
		if s.refreshItem(ctx, item) {
			drops++
		}
	}

	s.logger.Info("price update completed", "items", len(items), "drops", drops)
	return drops
}

// refreshItem re-prices a single item and reports whether a
// significant drop was detected.
func (s *Scheduler) refreshItem(ctx context.Context, item *models.WatchItem) bool {
	match := s.finder.FindBestPrice(ctx, item.Name)
	if match == nil {
		// indistinguishable from "not cheaper than before": no update,
		// no alert
		return false
	}

	if err := s.store.RecordObservation(ctx, item.ID, match); err != nil {
		s.logger.Error("failed to record observation",
			"item", item.Name, "error", err)
	}

	// Only the first sighting or a better price overwrites the stored
	// best.
	if item.CurrentPrice != nil && match.Price >= *item.CurrentPrice {
		return false
	}

	if err := s.store.UpdateItemPrice(ctx, item.ID, match.Price, match.URL, match.Retailer); err != nil {
		s.logger.Error("failed to update item price",
			"item", item.Name, "error", err)
		return false
	}

	if item.CurrentPrice == nil || item.TargetPrice == nil {
		return false
	}
	if !comparator.IsSignificantDrop(item.CurrentPrice, &match.Price, s.cfg.DropThresholdPercent) {
		return false
	}

	oldPrice := *item.CurrentPrice
	payload := &events.PriceDropPayload{
		ItemID:      item.ID,
		ItemName:    item.Name,
		ProductName: match.Name,
		OldPrice:    oldPrice,
		NewPrice:    match.Price,
		DropPercent: (oldPrice - match.Price) / oldPrice * 100,
		TargetPrice: item.TargetPrice,
		Retailer:    match.Retailer,
		URL:         match.URL,
	}

	if err := s.publisher.PublishPriceDrop(ctx, payload); err != nil {
		s.logger.Error("failed to publish price drop",
			"item", item.Name, "error", err)
		return false
	}

	s.logger.Info("price drop detected",
		"item", item.Name,
		"old_price", oldPrice,
		"new_price", match.Price,
		"retailer", match.Retailer)
	return true
}
