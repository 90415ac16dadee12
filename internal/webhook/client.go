package webhook

import (
	"context"
	"time"

	"github.com/sboli/rcstrap/internal/model"
	"github.com/sboli/rcstrap/pkg/httpclient"
	"go.uber.org/zap"
)

// Config resolves the webhook destination at call time so operator changes
// apply to the next delivery, not a restart.
type Config interface {
	WebhookURL() string
	WebhookTimeout() time.Duration
}

type Client interface {
	SendMoMessage(ctx context.Context, report MoMessage) bool
	SendDeliveryReport(ctx context.Context, report DeliveryReport) bool
}

// MoMessage is the webhook body for a user-originated message: exactly the
// fields the user composed, plus server-stamped identity and time.
type MoMessage struct {
	SenderPhoneNumber  string                    `json:"senderPhoneNumber"`
	MessageID          string                    `json:"messageId"`
	SendTime           string                    `json:"sendTime"`
	AgentID            string                    `json:"agentId"`
	Text               *string                   `json:"text,omitempty"`
	SuggestionResponse *model.SuggestionResponse `json:"suggestionResponse,omitempty"`
	UserFile           *model.UserFile           `json:"userFile,omitempty"`
	Location           *model.Location           `json:"location,omitempty"`
}

// DeliveryReport is the webhook body for a simulated network event.
type DeliveryReport struct {
	SenderPhoneNumber string `json:"senderPhoneNumber"`
	EventType         string `json:"eventType"`
	EventID           string `json:"eventId"`
	MessageID         string `json:"messageId"`
	SendTime          string `json:"sendTime"`
}

type client struct {
	config Config
	http   httpclient.HTTPClient
	logger *zap.Logger
}

func NewClient(config Config, http httpclient.HTTPClient, logger *zap.Logger) Client {
	return &client{config: config, http: http, logger: logger}
}

// deliver posts the payload and reports success. Failures are logged and
// swallowed: the simulator attempts notification, it does not guarantee it,
// and a failed POST never alters simulated message state.
func (c *client) deliver(ctx context.Context, payload any) bool {
	url := c.config.WebhookURL()
	timeout := c.config.WebhookTimeout()

	resp, err := c.http.PostJSON(ctx, url, payload, timeout)
	if err != nil {
		c.logger.Warn("Webhook delivery failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	c.logger.Info("Webhook delivered",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode))

	return true
}

func (c *client) SendMoMessage(ctx context.Context, report MoMessage) bool {
	if report.SendTime == "" {
		report.SendTime = time.Now().UTC().Format(time.RFC3339)
	}
	return c.deliver(ctx, report)
}

func (c *client) SendDeliveryReport(ctx context.Context, report DeliveryReport) bool {
	if report.SendTime == "" {
		report.SendTime = time.Now().UTC().Format(time.RFC3339)
	}
	return c.deliver(ctx, report)
}
