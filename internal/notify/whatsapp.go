// Package notify delivers price-drop alerts. The core engine never
// sends messages itself; the alert consumer formats events into text
// and hands them to a Notifier.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/maltedev/dealwatch/internal/events"
)

var ErrNotConfigured = errors.New("notifier credentials not configured")

// Notifier sends one fully formatted alert message.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// FormatAlert renders a price-drop event as the WhatsApp message body.
func FormatAlert(p *events.PriceDropPayload) string {
	msg := fmt.Sprintf(
		"🔔 Price Drop Alert!\n\n%s\n\nOld price: %.2f\nNew price: %.2f (-%.1f%%)\nRetailer: %s\n\n%s",
		p.ItemName, p.OldPrice, p.NewPrice, p.DropPercent, p.Retailer, p.URL,
	)
	if p.TargetPrice != nil && p.NewPrice <= *p.TargetPrice {
		msg += fmt.Sprintf("\n\nBelow your target of %.2f!", *p.TargetPrice)
	}
	return msg
}

// TwilioConfig holds WhatsApp-over-Twilio credentials.
type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsAppFrom string
	WhatsAppTo   string
}

// WhatsAppNotifier sends messages through Twilio's WhatsApp API.
type WhatsAppNotifier struct {
	client *resty.Client
	cfg    TwilioConfig
	logger *slog.Logger
}

func NewWhatsAppNotifier(cfg TwilioConfig, logger *slog.Logger) *WhatsAppNotifier {
	client := resty.New().
		SetBaseURL("https://api.twilio.com/2010-04-01").
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken)

	return &WhatsAppNotifier{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "whatsapp_notifier"),
	}
}

func (n *WhatsAppNotifier) Send(ctx context.Context, message string) error {
	if n.cfg.AccountSID == "" || n.cfg.AuthToken == "" {
		return ErrNotConfigured
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": "whatsapp:" + n.cfg.WhatsAppFrom,
			"To":   "whatsapp:" + n.cfg.WhatsAppTo,
			"Body": message,
		}).
		Post(fmt.Sprintf("/Accounts/%s/Messages.json", n.cfg.AccountSID))

	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio returned status %d: %s", resp.StatusCode(), resp.String())
	}

	n.logger.Info("alert sent", "to", n.cfg.WhatsAppTo)
	return nil
}
