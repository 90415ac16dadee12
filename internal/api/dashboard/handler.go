package dashboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sboli/rcstrap/internal/constants"
	"github.com/sboli/rcstrap/internal/gateway"
	"github.com/sboli/rcstrap/internal/metrics"
	"github.com/sboli/rcstrap/internal/model"
	"github.com/sboli/rcstrap/internal/service"
	"go.uber.org/zap"
)

// Handler serves the operator-facing surface: conversations, the simulated
// handset composer, and live tuning of the simulation parameters.
type Handler struct {
	logger   *zap.Logger
	messages service.MessageService
	workflow service.MessageWorkflowService
	config   service.ConfigService
	gateway  *gateway.Gateway
	metrics  *metrics.Metrics
}

func NewHandler(logger *zap.Logger, messages service.MessageService, workflow service.MessageWorkflowService,
	config service.ConfigService, gw *gateway.Gateway, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		messages: messages,
		workflow: workflow,
		config:   config,
		gateway:  gw,
		metrics:  m,
	}
}

func (h *Handler) GetConversations(c *fiber.Ctx) error {
	conversations, err := h.messages.Conversations(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(conversations)
}

func (h *Handler) GetMessages(c *fiber.Ctx) error {
	messages, err := h.messages.ListByPhone(c.UserContext(), service.ListMessagesQuery{
		Phone:  c.Params("phone"),
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

func (h *Handler) GetMessage(c *fiber.Ctx) error {
	message, err := h.messages.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(message)
}

// Compose injects a user-originated message, as if typed on the handset.
func (h *Handler) Compose(c *fiber.Ctx) error {
	var cmd service.ComposeUserMessageCommand
	if err := c.BodyParser(&cmd); err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	messageID, err := h.workflow.ComposeUserMessage(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	h.metrics.RecordMessageCreated(string(model.DirectionMO))
	return c.JSON(fiber.Map{"messageId": messageID})
}

func (h *Handler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(h.config.GetAll())
}

func (h *Handler) SetConfig(c *fiber.Ctx) error {
	var body struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	if err := h.config.Set(c.UserContext(), c.Params("key"), body.Value); err != nil {
		return err
	}

	resolved := h.config.GetAll()
	h.gateway.EmitConfigChanged(resolved)
	return c.JSON(resolved)
}

func (h *Handler) ResetConfig(c *fiber.Ctx) error {
	if err := h.config.Reset(c.UserContext(), c.Params("key")); err != nil {
		return err
	}

	resolved := h.config.GetAll()
	h.gateway.EmitConfigChanged(resolved)
	return c.JSON(resolved)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
