package mocks

import (
	"context"

	"github.com/sboli/rcstrap/internal/webhook"
	"github.com/stretchr/testify/mock"
)

type WebhookClient struct {
	mock.Mock
}

func (m *WebhookClient) SendMoMessage(ctx context.Context, report webhook.MoMessage) bool {
	args := m.Called(ctx, report)
	return args.Bool(0)
}

func (m *WebhookClient) SendDeliveryReport(ctx context.Context, report webhook.DeliveryReport) bool {
	args := m.Called(ctx, report)
	return args.Bool(0)
}
