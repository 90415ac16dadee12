package v1

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sboli/rcstrap/internal/constants"
	"github.com/sboli/rcstrap/internal/gateway"
	"github.com/sboli/rcstrap/internal/metrics"
	"github.com/sboli/rcstrap/internal/model"
	"github.com/sboli/rcstrap/internal/service"
	"go.uber.org/zap"
)

// Handler serves the protocol surface an RBM client talks to.
type Handler struct {
	logger   *zap.Logger
	workflow service.MessageWorkflowService
	config   service.ConfigService
	gateway  *gateway.Gateway
	metrics  *metrics.Metrics
}

func NewHandler(logger *zap.Logger, workflow service.MessageWorkflowService,
	config service.ConfigService, gw *gateway.Gateway, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, workflow: workflow, config: config, gateway: gw, metrics: m}
}

func (h *Handler) CreateAgentMessage(c *fiber.Ctx) error {
	phone := c.Params("phone")

	resp, err := h.workflow.CreateAgentMessage(c.UserContext(), service.CreateAgentMessageCommand{
		Phone:   phone,
		Payload: normalizedPayload(c),
	})
	if err != nil {
		var svcErr service.Error
		if errors.As(err, &svcErr) && svcErr.Code == constants.ErrCodeValidationFailed {
			h.metrics.RecordValidationFailure()
		}
		return err
	}

	h.metrics.RecordMessageCreated(string(model.DirectionMT))
	h.logger.Info("Agent message accepted",
		zap.String("phone", phone),
		zap.String("name", resp.Name))

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) RevokeAgentMessage(c *fiber.Ctx) error {
	phone := c.Params("phone")
	messageID := c.Params("messageId")

	if err := h.workflow.RevokeAgentMessage(c.UserContext(), phone, messageID); err != nil {
		return err
	}

	h.metrics.RecordMessageRevoked()
	return c.JSON(fiber.Map{})
}

// CreateAgentEvent relays typing and read indicators from the agent to
// connected observers. Events are fire-and-forget and never persisted.
func (h *Handler) CreateAgentEvent(c *fiber.Ctx) error {
	phone := c.Params("phone")

	var request CreateAgentEventRequest
	if err := c.BodyParser(&request); err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	h.gateway.EmitAgentEvent(gateway.AgentEvent{
		Phone:     phone,
		EventType: request.EventType,
		MessageID: request.MessageID,
		EventID:   request.EventID,
	})

	return c.JSON(fiber.Map{})
}

func (h *Handler) GetCapabilities(c *fiber.Ctx) error {
	return c.JSON(CapabilitiesResponse{Features: h.config.Features()})
}

// BatchGetUsers reports every requested phone as reachable with the full
// capability set. The simulator has no real user directory.
func (h *Handler) BatchGetUsers(c *fiber.Ctx) error {
	var request BatchGetUsersRequest
	if err := c.BodyParser(&request); err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	features := h.config.Features()
	reachable := make([]ReachableUser, 0, len(request.Users))
	for _, phone := range request.Users {
		reachable = append(reachable, ReachableUser{
			Name:     fmt.Sprintf("phones/%s", phone),
			Features: features,
		})
	}

	return c.JSON(BatchGetUsersResponse{ReachableUsers: reachable})
}

func (h *Handler) InviteTester(c *fiber.Ctx) error {
	phone := c.Params("phone")
	return c.JSON(InviteTesterResponse{Name: fmt.Sprintf("phones/%s/testers", phone)})
}
