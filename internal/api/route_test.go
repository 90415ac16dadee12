package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sboli/rcstrap/internal/api"
	"github.com/sboli/rcstrap/internal/api/dashboard"
	v1 "github.com/sboli/rcstrap/internal/api/v1"
	errmw "github.com/sboli/rcstrap/internal/error"
	"github.com/sboli/rcstrap/internal/gateway"
	"github.com/sboli/rcstrap/internal/metrics"
	"github.com/sboli/rcstrap/internal/model"
	"github.com/sboli/rcstrap/internal/repository"
	"github.com/sboli/rcstrap/internal/service"
	"github.com/sboli/rcstrap/internal/webhook"
	"github.com/sboli/rcstrap/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// One registry-backed metrics instance for the whole test binary.
var testMetrics = metrics.NewMetrics()

// memMessageRepo is an in-memory stand-in for the gorm repository.
type memMessageRepo struct {
	mu       sync.Mutex
	messages []*model.Message
}

func (r *memMessageRepo) Create(_ context.Context, message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *memMessageRepo) Update(_ context.Context, message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == message.ID {
			stored := *message
			r.messages[i] = &stored
			return nil
		}
	}
	return repository.ErrMessageNotFound
}

func (r *memMessageRepo) GetByID(_ context.Context, id string) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			found := *m
			return &found, nil
		}
	}
	return nil, repository.ErrMessageNotFound
}

func (r *memMessageRepo) GetByMessageID(_ context.Context, messageID string) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.MessageID == messageID {
			found := *m
			return &found, nil
		}
	}
	return nil, repository.ErrMessageNotFound
}

func (r *memMessageRepo) ListByPhone(_ context.Context, phone string, limit, offset int) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	for _, m := range r.messages {
		if m.Phone == phone {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMessageRepo) Conversations(_ context.Context) ([]repository.ConversationRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := map[string]*model.Message{}
	counts := map[string]int{}
	for _, m := range r.messages {
		counts[m.Phone]++
		if cur, ok := latest[m.Phone]; !ok || m.CreatedAt.After(cur.CreatedAt) {
			latest[m.Phone] = m
		}
	}
	var rows []repository.ConversationRow
	for phone, m := range latest {
		rows = append(rows, repository.ConversationRow{
			Phone:         phone,
			LastMessage:   m.Payload,
			LastCreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
			Total:         counts[phone],
		})
	}
	return rows, nil
}

type memConfigRepo struct {
	mu        sync.Mutex
	overrides map[string]string
}

func newMemConfigRepo() *memConfigRepo {
	return &memConfigRepo{overrides: map[string]string{}}
}

func (r *memConfigRepo) Get(_ context.Context, key string) (*model.ConfigOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if value, ok := r.overrides[key]; ok {
		return &model.ConfigOverride{Key: key, Value: value}, nil
	}
	return nil, repository.ErrOverrideNotFound
}

func (r *memConfigRepo) Upsert(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[key] = value
	return nil
}

func (r *memConfigRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, key)
	return nil
}

func (r *memConfigRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = map[string]string{}
	return nil
}

// webhookRecorder captures every body POSTed to the simulated agent server.
type webhookRecorder struct {
	mu     sync.Mutex
	bodies []map[string]any
	server *httptest.Server
}

func newWebhookRecorder() *webhookRecorder {
	rec := &webhookRecorder{}
	rec.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		rec.mu.Lock()
		rec.bodies = append(rec.bodies, body)
		rec.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	return rec
}

func (rec *webhookRecorder) eventTypes() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	var out []string
	for _, b := range rec.bodies {
		if et, ok := b["eventType"].(string); ok {
			out = append(out, et)
		}
	}
	return out
}

type testEnv struct {
	app      *fiber.App
	gateway  *gateway.Gateway
	recorder *webhookRecorder
	repo     *memMessageRepo
}

// newTestEnv wires the full stack with an in-memory store, a synchronous
// delivery scheduler and a recording webhook target. Delivery rolls always
// land under the configured percentages.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	repo := &memMessageRepo{}
	configRepo := newMemConfigRepo()
	recorder := newWebhookRecorder()
	t.Cleanup(recorder.server.Close)

	gw := gateway.New(logger, 10*time.Millisecond)

	configSvc := service.NewConfigService(configRepo, logger)
	require.NoError(t, configSvc.Set(context.Background(), service.KeyWebhookURL, recorder.server.URL))

	messageSvc := service.NewMessageService(repo, logger)
	webhookClient := webhook.NewClient(configSvc, httpclient.NewHTTPClient(5*time.Second), logger)
	deliverySvc := service.NewDeliveryReportService(configSvc, messageSvc, gw, webhookClient, logger,
		service.WithRandomSource(func() float64 { return 0 }),
		service.WithAfterFunc(func(_ time.Duration, task func()) { task() }))
	workflowSvc := service.NewMessageWorkflowService(messageSvc, configSvc, gw, deliverySvc, webhookClient, logger)

	app := fiber.New(fiber.Config{ErrorHandler: errmw.ErrorHandler()})
	api.SetupRoutes(app,
		v1.NewHandler(logger, workflowSvc, configSvc, gw, testMetrics),
		dashboard.NewHandler(logger, messageSvc, workflowSvc, configSvc, gw, testMetrics),
		api.NewWSHandler(logger, gw))

	return &testEnv{app: app, gateway: gw, recorder: recorder, repo: repo}
}

func (e *testEnv) request(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestCreateAgentMessage(t *testing.T) {
	t.Run("accepts a wrapped payload and runs the delivered pipeline", func(t *testing.T) {
		env := newTestEnv(t)

		resp, body := env.request(t, "POST", "/v1/phones/+15551234567/agentMessages?messageId=msg-1", map[string]any{
			"contentMessage":     map[string]any{"text": "hello there"},
			"messageTrafficType": "TRANSACTION",
		})

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "phones/+15551234567/agentMessages/msg-1", body["name"])

		// Synchronous scheduler: typing, delivered and read already ran.
		assert.Equal(t, []string{"IS_TYPING", "DELIVERED", "READ"}, env.recorder.eventTypes())

		stored, err := env.repo.GetByMessageID(context.Background(), "msg-1")
		require.NoError(t, err)
		assert.Equal(t, model.MessageStatusRead, stored.Status)
		assert.NotNil(t, stored.DeliveredAt)
		assert.NotNil(t, stored.ReadAt)
	})

	t.Run("rejects an invalid payload with field violations", func(t *testing.T) {
		env := newTestEnv(t)

		resp, body := env.request(t, "POST", "/v1/phones/+15551234567/agentMessages", map[string]any{
			"text": "hi",
			"richCard": map[string]any{
				"standaloneCard": map[string]any{
					"cardOrientation": "VERTICAL",
					"cardContent":     map[string]any{"title": "t"},
				},
			},
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		errBody := body["error"].(map[string]any)
		assert.Equal(t, float64(400), errBody["code"])
		assert.Equal(t, "INVALID_ARGUMENT", errBody["status"])

		details := errBody["details"].([]any)
		detail := details[0].(map[string]any)
		assert.Equal(t, "type.googleapis.com/google.rpc.BadRequest", detail["@type"])
		assert.NotEmpty(t, detail["fieldViolations"])
	})

	t.Run("rejects a malformed phone", func(t *testing.T) {
		env := newTestEnv(t)

		resp, _ := env.request(t, "POST", "/v1/phones/15551234567/agentMessages", map[string]any{
			"text": "hi",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects a body that is not JSON", func(t *testing.T) {
		env := newTestEnv(t)

		req := httptest.NewRequest("POST", "/v1/phones/+15551234567/agentMessages",
			bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := env.app.Test(req, 5000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestRevokeAgentMessage(t *testing.T) {
	t.Run("revoking a delivered message is refused", func(t *testing.T) {
		env := newTestEnv(t)

		// The synchronous pipeline drives the message to READ immediately.
		resp, _ := env.request(t, "POST", "/v1/phones/+15551234567/agentMessages?messageId=msg-1", map[string]any{
			"text": "hello",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		resp, body := env.request(t, "DELETE", "/v1/phones/+15551234567/agentMessages/msg-1", nil)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "INVALID_ARGUMENT", errBody["status"])
	})

	t.Run("revoking an unknown message returns not found", func(t *testing.T) {
		env := newTestEnv(t)

		resp, body := env.request(t, "DELETE", "/v1/phones/+15551234567/agentMessages/missing", nil)

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "NOT_FOUND", errBody["status"])
	})
}

func TestCapabilities(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "GET", "/v1/phones/+15551234567/capabilities", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["features"], 7)
}

func TestBatchGetUsers(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "POST", "/v1/users:batchGet", map[string]any{
		"users": []string{"+15551234567", "+15559990000"},
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	reachable := body["reachableUsers"].([]any)
	require.Len(t, reachable, 2)
	first := reachable[0].(map[string]any)
	assert.Equal(t, "phones/+15551234567", first["name"])
	assert.Len(t, first["features"], 7)
}

func TestInviteTester(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "POST", "/v1/phones/+15551234567/testers", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "phones/+15551234567/testers", body["name"])
}

func TestAgentEvents(t *testing.T) {
	env := newTestEnv(t)

	subscriber := env.gateway.Subscribe()
	defer env.gateway.Unsubscribe(subscriber)

	resp, _ := env.request(t, "POST", "/v1/phones/+15551234567/agentEvents", map[string]any{
		"eventType": "IS_TYPING",
		"messageId": "msg-1",
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	select {
	case event := <-subscriber.C:
		assert.Equal(t, "agent:event", event.Name)
		agentEvent := event.Data.(gateway.AgentEvent)
		assert.Equal(t, "IS_TYPING", agentEvent.EventType)
		assert.Equal(t, "msg-1", agentEvent.MessageID)
	case <-time.After(time.Second):
		t.Fatal("no agent event received")
	}
}

func TestCompose(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "POST", "/api/compose", map[string]any{
		"phone": "+15551234567",
		"text":  "user says hi",
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	messageID := body["messageId"].(string)
	assert.NotEmpty(t, messageID)

	stored, err := env.repo.GetByMessageID(context.Background(), messageID)
	require.NoError(t, err)
	assert.Equal(t, model.DirectionMO, stored.Direction)
	assert.Equal(t, model.MessageStatusSent, stored.Status)

	// The MO webhook body carries the composed text, not a delivery event.
	env.recorder.mu.Lock()
	defer env.recorder.mu.Unlock()
	require.Len(t, env.recorder.bodies, 1)
	assert.Equal(t, "user says hi", env.recorder.bodies[0]["text"])
	assert.Equal(t, "+15551234567", env.recorder.bodies[0]["senderPhoneNumber"])
}

func TestConversationsAndMessages(t *testing.T) {
	env := newTestEnv(t)

	for _, text := range []string{"first", "second"} {
		resp, _ := env.request(t, "POST", "/api/compose", map[string]any{
			"phone": "+15551234567",
			"text":  text,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, _ := env.request(t, "GET", "/api/conversations", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err := env.app.Test(httptest.NewRequest("GET", "/api/conversations/+15551234567/messages", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var messages []model.Message
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &messages))
	assert.Len(t, messages, 2)
}

func TestConfigEndpoints(t *testing.T) {
	t.Run("round-trips an override and notifies subscribers", func(t *testing.T) {
		env := newTestEnv(t)

		subscriber := env.gateway.Subscribe()
		defer env.gateway.Unsubscribe(subscriber)

		resp, body := env.request(t, "PUT", "/api/config/deliveryReportReadPct", map[string]any{
			"value": "55",
		})

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(55), body["deliveryReportReadPct"])

		select {
		case event := <-subscriber.C:
			assert.Equal(t, "config:changed", event.Name)
		case <-time.After(time.Second):
			t.Fatal("no config:changed event received")
		}

		resp, body = env.request(t, "DELETE", "/api/config/deliveryReportReadPct", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(10), body["deliveryReportReadPct"])
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		resp, _ := env.request(t, "PUT", "/api/config/noSuchKey", map[string]any{"value": "1"})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "GET", "/api/health", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest("GET", "/metrics", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
