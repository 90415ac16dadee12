package mocks

import (
	"context"

	"github.com/sboli/rcstrap/internal/model"
	"github.com/sboli/rcstrap/internal/service"
	"github.com/stretchr/testify/mock"
)

type MessageService struct {
	mock.Mock
}

func (m *MessageService) Create(ctx context.Context, cmd service.CreateMessageCommand) (*model.Message, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MessageService) AdvanceStatus(ctx context.Context, messageID string, status model.MessageStatus) (*model.Message, error) {
	args := m.Called(ctx, messageID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MessageService) GetByMessageID(ctx context.Context, messageID string) (*model.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MessageService) GetByID(ctx context.Context, id string) (*model.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MessageService) ListByPhone(ctx context.Context, query service.ListMessagesQuery) ([]model.Message, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MessageService) Conversations(ctx context.Context) ([]service.Conversation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Conversation), args.Error(1)
}
