package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sboli/rcstrap/internal/webhook"
	"github.com/sboli/rcstrap/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticConfig struct {
	url     string
	timeout time.Duration
}

func (c staticConfig) WebhookURL() string            { return c.url }
func (c staticConfig) WebhookTimeout() time.Duration { return c.timeout }

func newClient(url string) webhook.Client {
	return webhook.NewClient(
		staticConfig{url: url, timeout: time.Second},
		httpclient.NewHTTPClient(5*time.Second),
		zap.NewNop(),
	)
}

func TestClient_SendDeliveryReport(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	}))
	defer server.Close()

	ok := newClient(server.URL).SendDeliveryReport(context.Background(), webhook.DeliveryReport{
		SenderPhoneNumber: "+15551234567",
		EventType:         "DELIVERED",
		EventID:           "evt-1",
		MessageID:         "msg-1",
	})

	assert.True(t, ok)
	assert.Equal(t, "+15551234567", body["senderPhoneNumber"])
	assert.Equal(t, "DELIVERED", body["eventType"])
	assert.Equal(t, "evt-1", body["eventId"])
	assert.Equal(t, "msg-1", body["messageId"])
	assert.NotEmpty(t, body["sendTime"])
}

func TestClient_SendMoMessage(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	}))
	defer server.Close()

	text := "hello agent"
	ok := newClient(server.URL).SendMoMessage(context.Background(), webhook.MoMessage{
		SenderPhoneNumber: "+15551234567",
		MessageID:         "mo-1",
		AgentID:           "test-agent",
		Text:              &text,
	})

	assert.True(t, ok)
	assert.Equal(t, "hello agent", body["text"])
	assert.Equal(t, "test-agent", body["agentId"])
	assert.NotContains(t, body, "suggestionResponse")
	assert.NotContains(t, body, "location")
	assert.NotEmpty(t, body["sendTime"])
}

func TestClient_DeliveryFailureSwallowed(t *testing.T) {
	// Unroutable target: delivery must report false, not error out.
	ok := newClient("http://127.0.0.1:1").SendDeliveryReport(context.Background(), webhook.DeliveryReport{
		SenderPhoneNumber: "+15551234567",
		EventType:         "READ",
		EventID:           "evt-2",
		MessageID:         "msg-2",
	})

	assert.False(t, ok)
}
