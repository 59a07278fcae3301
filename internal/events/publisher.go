package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/maltedev/dealwatch/internal/database"
	"github.com/maltedev/dealwatch/internal/models"
)

// EventType represents the type of event
type EventType string

const (
	// EventTypePriceDropDetected is published when an item's best
	// price falls far enough below its previous price
	EventTypePriceDropDetected EventType = "PRICE_DROP_DETECTED"
)

// PriceDropPayload is the body of a PRICE_DROP_DETECTED event.
type PriceDropPayload struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	Timestamp   time.Time       `json:"timestamp"`
	ItemID      int64           `json:"item_id"`
	ItemName    string          `json:"item_name"`
	ProductName string          `json:"product_name,omitempty"`
	OldPrice    float64         `json:"old_price"`
	NewPrice    float64         `json:"new_price"`
	DropPercent float64         `json:"drop_percent"`
	TargetPrice *float64        `json:"target_price,omitempty"`
	Retailer    models.Retailer `json:"retailer"`
	URL         string          `json:"url"`
	Source      string          `json:"source"`
}

// Publisher writes price-drop events through the transactional outbox
type Publisher struct {
	db     *database.DB
	outbox *database.OutboxRepository
	logger *slog.Logger
}

func NewPublisher(db *database.DB, logger *slog.Logger) *Publisher {
	return &Publisher{
		db:     db,
		outbox: database.NewOutboxRepository(db),
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishPriceDrop publishes a PRICE_DROP_DETECTED event. The outbox
// insert is transactional; the relay delivers it to the stream later.
func (p *Publisher) PublishPriceDrop(ctx context.Context, payload *PriceDropPayload) error {
	if payload.EventID == "" {
		payload.EventID = uuid.New().String()
	}
	if payload.EventType == "" {
		payload.EventType = string(EventTypePriceDropDetected)
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now()
	}
	if payload.Source == "" {
		payload.Source = "dealwatch"
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	outboxEvent := &database.OutboxEvent{
		AggregateType: "watch_item",
		AggregateID:   strconv.FormatInt(payload.ItemID, 10),
		EventType:     string(EventTypePriceDropDetected),
		Payload:       data,
		TargetStream:  database.DefaultAlertStream,
	}

	err = p.db.Transaction(ctx, func(tx pgx.Tx) error {
		return p.outbox.InsertWithTx(ctx, tx, outboxEvent)
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("event published to outbox",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"item_id", payload.ItemID,
		"outbox_id", outboxEvent.ID,
	)

	return nil
}
