package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sboli/rcstrap/internal/constants"
	"github.com/sboli/rcstrap/internal/gateway"
	"github.com/sboli/rcstrap/internal/model"
	"github.com/sboli/rcstrap/internal/rcs"
	"github.com/sboli/rcstrap/internal/webhook"
	"go.uber.org/zap"
)

// MessageWorkflowService orchestrates the full life of a message: inbound
// agent sends (validate, persist, announce, kick off the delivery
// simulation), revocations, and user-composed MO messages.
type MessageWorkflowService interface {
	CreateAgentMessage(ctx context.Context, cmd CreateAgentMessageCommand) (CreateAgentMessageResponse, error)
	RevokeAgentMessage(ctx context.Context, phone, messageID string) error
	ComposeUserMessage(ctx context.Context, cmd ComposeUserMessageCommand) (string, error)
}

type messageWorkflow struct {
	messages MessageService
	config   ConfigService
	gateway  *gateway.Gateway
	reports  DeliveryReportService
	webhook  webhook.Client
	logger   *zap.Logger
}

func NewMessageWorkflowService(messages MessageService, config ConfigService, gw *gateway.Gateway,
	reports DeliveryReportService, webhookClient webhook.Client, logger *zap.Logger) MessageWorkflowService {
	return &messageWorkflow{
		messages: messages,
		config:   config,
		gateway:  gw,
		reports:  reports,
		webhook:  webhookClient,
		logger:   logger,
	}
}

func (m *messageWorkflow) CreateAgentMessage(ctx context.Context, cmd CreateAgentMessageCommand) (
	CreateAgentMessageResponse, error) {

	if !rcs.ValidPhone(cmd.Phone) {
		return CreateAgentMessageResponse{}, NewServiceError(constants.ErrCodeInvalidPhone,
			errors.New(constants.ErrMsgInvalidPhone))
	}

	canonical, err := json.Marshal(cmd.Payload)
	if err != nil {
		return CreateAgentMessageResponse{}, NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	var payload rcs.AgentMessage
	if err := json.Unmarshal(canonical, &payload); err != nil {
		m.logger.Warn("Malformed agent message payload",
			zap.String("phone", cmd.Phone),
			zap.Error(err))
		return CreateAgentMessageResponse{}, NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	if violations := rcs.ValidateAgentMessage(&payload); len(violations) > 0 {
		m.logger.Debug("Agent message rejected",
			zap.String("phone", cmd.Phone),
			zap.Int("violations", len(violations)))
		return CreateAgentMessageResponse{}, NewValidationError(violations)
	}

	messageID := payload.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}

	record, err := m.messages.Create(ctx, CreateMessageCommand{
		MessageID: messageID,
		Phone:     cmd.Phone,
		Direction: model.DirectionMT,
		Payload:   canonical,
		AgentID:   m.config.AgentID(),
	})
	if err != nil {
		return CreateAgentMessageResponse{}, NewServiceError(constants.ErrCodeInternalError, err)
	}

	m.gateway.EmitMessageNew(record)
	m.reports.ScheduleReports(cmd.Phone, messageID)

	return CreateAgentMessageResponse{
		Name: fmt.Sprintf("phones/%s/agentMessages/%s", cmd.Phone, messageID),
	}, nil
}

func (m *messageWorkflow) RevokeAgentMessage(ctx context.Context, phone, messageID string) error {
	record, err := m.messages.GetByMessageID(ctx, messageID)
	if err != nil || record.Phone != phone {
		return NewServiceError(constants.ErrCodeMessageNotFound,
			fmt.Errorf("message %s not found", messageID))
	}

	// The revocability check is deliberately not atomic with the status
	// write: a delivery timer firing between the two simply wins, the same
	// way a real carrier can deliver before a revoke reaches it. Do not
	// move this under the per-message lock.
	if !record.Revocable() {
		m.logger.Info("Revoke rejected for delivered message",
			zap.String("messageID", messageID),
			zap.String("status", string(record.Status)))
		return NewServiceError(constants.ErrCodePreconditionFailed,
			errors.New(constants.ErrMsgPreconditionFailed))
	}

	if _, err := m.messages.AdvanceStatus(ctx, messageID, model.MessageStatusRevoked); err != nil {
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	m.logger.Info("Message revoked",
		zap.String("messageID", messageID),
		zap.String("phone", phone))

	m.gateway.EmitMessageRevoked(messageID, phone)
	return nil
}

func (m *messageWorkflow) ComposeUserMessage(ctx context.Context, cmd ComposeUserMessageCommand) (string, error) {
	messageID := uuid.NewString()
	agentID := m.config.AgentID()

	canonical, err := json.Marshal(cmd)
	if err != nil {
		return "", NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	record, err := m.messages.Create(ctx, CreateMessageCommand{
		MessageID: messageID,
		Phone:     cmd.Phone,
		Direction: model.DirectionMO,
		Payload:   canonical,
		AgentID:   agentID,
	})
	if err != nil {
		return "", NewServiceError(constants.ErrCodeInternalError, err)
	}

	m.gateway.EmitMessageNew(record)

	m.webhook.SendMoMessage(ctx, webhook.MoMessage{
		SenderPhoneNumber:  cmd.Phone,
		MessageID:          messageID,
		AgentID:            agentID,
		Text:               cmd.Text,
		SuggestionResponse: cmd.SuggestionResponse,
		UserFile:           cmd.UserFile,
		Location:           cmd.Location,
	})

	return messageID, nil
}
