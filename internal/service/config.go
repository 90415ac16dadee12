package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/sboli/rcstrap/internal/constants"
	"github.com/sboli/rcstrap/internal/repository"
	"go.uber.org/zap"
)

// Simulation parameters resolved per read with precedence
// operator override (DB) > environment variable > built-in default.
// Nothing is cached: a change takes effect on the next scheduling
// decision, not on in-flight timers.

const (
	KeyWebhookURL          = "webhookUrl"
	KeyWebhookTimeoutMs    = "webhookTimeoutMs"
	KeyDeliveredPct        = "deliveryReportDeliveredPct"
	KeyReadPct             = "deliveryReportReadPct"
	KeyIsTypingEnabled     = "deliveryReportIsTypingEnabled"
	KeyDelayMs             = "deliveryReportDelayMs"
	KeyDefaultCapabilities = "defaultCapabilities"
	KeyAgentID             = "agentId"
)

// capabilityOrder fixes the feature listing order of capability responses.
var capabilityOrder = []string{
	"RICHCARD_STANDALONE",
	"RICHCARD_CAROUSEL",
	"ACTION_CREATE_CALENDAR_EVENT",
	"ACTION_DIAL",
	"ACTION_OPEN_URL",
	"ACTION_SHARE_LOCATION",
	"ACTION_VIEW_LOCATION",
}

const defaultCapabilitiesJSON = `{"RICHCARD_STANDALONE":true,"RICHCARD_CAROUSEL":true,` +
	`"ACTION_CREATE_CALENDAR_EVENT":true,"ACTION_DIAL":true,"ACTION_OPEN_URL":true,` +
	`"ACTION_SHARE_LOCATION":true,"ACTION_VIEW_LOCATION":true}`

type configEntry struct {
	Env     string
	Default string
}

var configEntries = map[string]configEntry{
	KeyWebhookURL:          {Env: "WEBHOOK_URL", Default: "http://localhost:8080/webhook"},
	KeyWebhookTimeoutMs:    {Env: "WEBHOOK_TIMEOUT_MS", Default: "5000"},
	KeyDeliveredPct:        {Env: "DELIVERY_REPORT_DELIVERED_PCT", Default: "80"},
	KeyReadPct:             {Env: "DELIVERY_REPORT_READ_PCT", Default: "10"},
	KeyIsTypingEnabled:     {Env: "DELIVERY_REPORT_IS_TYPING_ENABLED", Default: "true"},
	KeyDelayMs:             {Env: "DELIVERY_REPORT_DELAY_MS", Default: "1000"},
	KeyDefaultCapabilities: {Env: "DEFAULT_CAPABILITIES", Default: defaultCapabilitiesJSON},
	KeyAgentID:             {Env: "AGENT_ID", Default: "rcstrap-test-agent"},
}

// allKeys in stable listing order for GetAll.
var allKeys = []string{
	KeyWebhookURL, KeyWebhookTimeoutMs, KeyDeliveredPct, KeyReadPct,
	KeyIsTypingEnabled, KeyDelayMs, KeyDefaultCapabilities, KeyAgentID,
}

type ConfigService interface {
	WebhookURL() string
	WebhookTimeout() time.Duration
	DeliveryReportDelay() time.Duration
	DeliveredPct() float64
	ReadPct() float64
	IsTypingEnabled() bool
	AgentID() string
	Features() []string
	GetAll() map[string]any
	Set(ctx context.Context, key, value string) error
	Reset(ctx context.Context, key string) error
	ResetAll(ctx context.Context) error
}

type config struct {
	overrides repository.ConfigRepository
	logger    *zap.Logger
}

func NewConfigService(overrides repository.ConfigRepository, logger *zap.Logger) ConfigService {
	return &config{overrides: overrides, logger: logger}
}

func (c *config) getRaw(key string) string {
	entry := configEntries[key]

	override, err := c.overrides.Get(context.Background(), key)
	if err == nil {
		return override.Value
	}
	if !errors.Is(err, repository.ErrOverrideNotFound) {
		c.logger.Warn("Failed to read config override, falling back",
			zap.String("key", key), zap.Error(err))
	}

	if envVal, ok := os.LookupEnv(entry.Env); ok {
		return envVal
	}

	return entry.Default
}

func (c *config) getInt(key string) int {
	raw := c.getRaw(key)
	n, err := strconv.Atoi(raw)
	if err != nil {
		n, _ = strconv.Atoi(configEntries[key].Default)
	}
	return n
}

func (c *config) getBool(key string) bool {
	return c.getRaw(key) == "true"
}

func (c *config) WebhookURL() string {
	return c.getRaw(KeyWebhookURL)
}

func (c *config) WebhookTimeout() time.Duration {
	return time.Duration(c.getInt(KeyWebhookTimeoutMs)) * time.Millisecond
}

func (c *config) DeliveryReportDelay() time.Duration {
	return time.Duration(c.getInt(KeyDelayMs)) * time.Millisecond
}

func (c *config) DeliveredPct() float64 {
	return float64(c.getInt(KeyDeliveredPct))
}

func (c *config) ReadPct() float64 {
	return float64(c.getInt(KeyReadPct))
}

func (c *config) IsTypingEnabled() bool {
	return c.getBool(KeyIsTypingEnabled)
}

func (c *config) AgentID() string {
	return c.getRaw(KeyAgentID)
}

// Features lists the enabled RCS capabilities in their canonical order.
func (c *config) Features() []string {
	raw := c.getRaw(KeyDefaultCapabilities)

	var caps map[string]bool
	if err := json.Unmarshal([]byte(raw), &caps); err != nil {
		c.logger.Warn("Malformed capabilities override, using defaults", zap.Error(err))
		_ = json.Unmarshal([]byte(defaultCapabilitiesJSON), &caps)
	}

	features := make([]string, 0, len(capabilityOrder))
	for _, feature := range capabilityOrder {
		if caps[feature] {
			features = append(features, feature)
		}
	}
	return features
}

// GetAll returns the fully resolved configuration, typed per key.
func (c *config) GetAll() map[string]any {
	resolved := make(map[string]any, len(allKeys))
	for _, key := range allKeys {
		raw := c.getRaw(key)

		switch key {
		case KeyWebhookTimeoutMs, KeyDeliveredPct, KeyReadPct, KeyDelayMs:
			resolved[key] = c.getInt(key)
		case KeyIsTypingEnabled:
			resolved[key] = c.getBool(key)
		case KeyDefaultCapabilities:
			var caps map[string]bool
			if err := json.Unmarshal([]byte(raw), &caps); err != nil {
				_ = json.Unmarshal([]byte(defaultCapabilitiesJSON), &caps)
			}
			resolved[key] = caps
		default:
			resolved[key] = raw
		}
	}
	return resolved
}

func (c *config) Set(ctx context.Context, key, value string) error {
	if _, known := configEntries[key]; !known {
		return NewServiceError(constants.ErrCodeUnknownConfigKey, errors.New("unknown configuration key: "+key))
	}

	if err := c.overrides.Upsert(ctx, key, value); err != nil {
		c.logger.Error("Failed to persist config override", zap.String("key", key), zap.Error(err))
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	c.logger.Info("Config override set", zap.String("key", key), zap.String("value", value))
	return nil
}

func (c *config) Reset(ctx context.Context, key string) error {
	if _, known := configEntries[key]; !known {
		return NewServiceError(constants.ErrCodeUnknownConfigKey, errors.New("unknown configuration key: "+key))
	}

	if err := c.overrides.Delete(ctx, key); err != nil {
		c.logger.Error("Failed to delete config override", zap.String("key", key), zap.Error(err))
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	return nil
}

func (c *config) ResetAll(ctx context.Context) error {
	if err := c.overrides.DeleteAll(ctx); err != nil {
		return NewServiceError(constants.ErrCodeInternalError, err)
	}
	return nil
}
