package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sboli/rcstrap/internal/model"
	"github.com/sboli/rcstrap/internal/repository"
	"go.uber.org/zap"
)

type CreateMessageCommand struct {
	MessageID string
	Phone     string
	Direction model.MessageDirection
	Payload   json.RawMessage
	AgentID   string
}

// MessageService owns message records and is the only mutator of message
// status. Status transitions are serialized per messageId; transitions for
// different messages run fully concurrently.
type MessageService interface {
	Create(ctx context.Context, cmd CreateMessageCommand) (*model.Message, error)
	AdvanceStatus(ctx context.Context, messageID string, status model.MessageStatus) (*model.Message, error)
	GetByMessageID(ctx context.Context, messageID string) (*model.Message, error)
	GetByID(ctx context.Context, id string) (*model.Message, error)
	ListByPhone(ctx context.Context, query ListMessagesQuery) ([]model.Message, error)
	Conversations(ctx context.Context) ([]Conversation, error)
}

type message struct {
	messageRepo repository.MessageRepository
	logger      *zap.Logger

	// locks serializes read-modify-write transitions per messageId so the
	// typing/delivered/read timers for one message cannot race each other.
	locks *keyedLock
}

func NewMessageService(messageRepo repository.MessageRepository, logger *zap.Logger) MessageService {
	return &message{messageRepo: messageRepo, logger: logger, locks: newKeyedLock()}
}

func (m *message) Create(ctx context.Context, cmd CreateMessageCommand) (*model.Message, error) {
	agentID := cmd.AgentID

	record := &model.Message{
		ID:        uuid.NewString(),
		MessageID: cmd.MessageID,
		Phone:     cmd.Phone,
		Direction: cmd.Direction,
		Status:    model.MessageStatusSent,
		Payload:   cmd.Payload,
		AgentID:   &agentID,
		CreatedAt: time.Now(),
	}

	if err := m.messageRepo.Create(ctx, record); err != nil {
		m.logger.Error("Failed to create message",
			zap.String("messageID", cmd.MessageID),
			zap.String("phone", cmd.Phone),
			zap.Error(err))
		return nil, ErrDatabase
	}

	m.logger.Info("Message created",
		zap.String("messageID", cmd.MessageID),
		zap.String("phone", cmd.Phone),
		zap.String("direction", string(cmd.Direction)))

	return record, nil
}

func (m *message) AdvanceStatus(ctx context.Context, messageID string, status model.MessageStatus) (*model.Message, error) {
	unlock := m.locks.Lock(messageID)
	defer unlock()

	record, err := m.messageRepo.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, ErrDatabase
	}

	record.StampStatus(status, time.Now())

	if err := m.messageRepo.Update(ctx, record); err != nil {
		m.logger.Error("Failed to update message status",
			zap.String("messageID", messageID),
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, ErrDatabase
	}

	m.logger.Debug("Message status advanced",
		zap.String("messageID", messageID),
		zap.String("status", string(status)))

	return record, nil
}

func (m *message) GetByMessageID(ctx context.Context, messageID string) (*model.Message, error) {
	record, err := m.messageRepo.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, ErrDatabase
	}
	return record, nil
}

func (m *message) GetByID(ctx context.Context, id string) (*model.Message, error) {
	record, err := m.messageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, ErrDatabase
	}
	return record, nil
}

func (m *message) ListByPhone(ctx context.Context, query ListMessagesQuery) ([]model.Message, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}

	messages, err := m.messageRepo.ListByPhone(ctx, query.Phone, limit, query.Offset)
	if err != nil {
		return nil, ErrDatabase
	}
	return messages, nil
}

func (m *message) Conversations(ctx context.Context) ([]Conversation, error) {
	rows, err := m.messageRepo.Conversations(ctx)
	if err != nil {
		return nil, ErrDatabase
	}

	conversations := make([]Conversation, 0, len(rows))
	for _, row := range rows {
		conversations = append(conversations, Conversation{
			Phone:         row.Phone,
			LastMessage:   json.RawMessage(row.LastMessage),
			LastCreatedAt: row.LastCreatedAt,
			MessageCount:  row.Total,
		})
	}
	return conversations, nil
}
