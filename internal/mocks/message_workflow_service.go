package mocks

import (
	"context"

	"github.com/sboli/rcstrap/internal/service"
	"github.com/stretchr/testify/mock"
)

type MessageWorkflowService struct {
	mock.Mock
}

func (m *MessageWorkflowService) CreateAgentMessage(ctx context.Context, cmd service.CreateAgentMessageCommand) (service.CreateAgentMessageResponse, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.CreateAgentMessageResponse), args.Error(1)
}

func (m *MessageWorkflowService) RevokeAgentMessage(ctx context.Context, phone, messageID string) error {
	args := m.Called(ctx, phone, messageID)
	return args.Error(0)
}

func (m *MessageWorkflowService) ComposeUserMessage(ctx context.Context, cmd service.ComposeUserMessageCommand) (string, error) {
	args := m.Called(ctx, cmd)
	return args.String(0), args.Error(1)
}
