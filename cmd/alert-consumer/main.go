// alert-consumer reads PRICE_DROP_DETECTED events from the Redis
// stream the relay publishes to and delivers them as WhatsApp
// messages.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maltedev/dealwatch/internal/config"
	"github.com/maltedev/dealwatch/internal/events"
	"github.com/maltedev/dealwatch/internal/notify"
)

const (
	consumerGroup = "alert-consumer-group"
	consumerName  = "consumer-1"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to Redis", "addr", cfg.Redis.Addr)

	notifier := notify.NewWhatsAppNotifier(notify.TwilioConfig{
		AccountSID:   cfg.Notifier.TwilioAccountSID,
		AuthToken:    cfg.Notifier.TwilioAuthToken,
		WhatsAppFrom: cfg.Notifier.TwilioWhatsAppFrom,
		WhatsAppTo:   cfg.Notifier.TwilioWhatsAppTo,
	}, logger)

	consumer := &Consumer{
		redis:    rdb,
		notifier: notifier,
		stream:   cfg.Redis.Stream,
		logger:   logger,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down...")
		cancel()
	}()

	if err := consumer.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("consumer stopped with error", "error", err)
		os.Exit(1)
	}
}

type Consumer struct {
	redis    *redis.Client
	notifier notify.Notifier
	stream   string
	logger   *slog.Logger
}

func (c *Consumer) Run(ctx context.Context) error {
	// Create consumer group (ignore error if already exists)
	c.redis.XGroupCreate(ctx, c.stream, consumerGroup, "0").Err()

	c.logger.Info("starting consumer", "stream", c.stream, "group", consumerGroup)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			streams, err := c.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    consumerGroup,
				Consumer: consumerName,
				Streams:  []string{c.stream, ">"},
				Count:    1,
				Block:    5 * time.Second,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error("failed to read from stream", "error", err)
				time.Sleep(1 * time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					if err := c.processMessage(ctx, message); err != nil {
						c.logger.Error("failed to process message",
							"id", message.ID, "error", err)
						continue
					}

					if err := c.redis.XAck(ctx, c.stream, consumerGroup, message.ID).Err(); err != nil {
						c.logger.Error("failed to acknowledge message",
							"id", message.ID, "error", err)
					}
				}
			}
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg redis.XMessage) error {
	eventType, ok := msg.Values["event_type"].(string)
	if !ok || eventType != string(events.EventTypePriceDropDetected) {
		return nil
	}

	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return fmt.Errorf("missing data in event")
	}

	var envelope struct {
		Payload events.PriceDropPayload `json:"payload"`
	}
	if err := json.Unmarshal([]byte(dataStr), &envelope); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	payload := &envelope.Payload
	c.logger.Info("processing price drop",
		"message_id", msg.ID,
		"item", payload.ItemName,
		"new_price", payload.NewPrice,
		"retailer", payload.Retailer)

	if err := c.notifier.Send(ctx, notify.FormatAlert(payload)); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}

	return nil
}
