package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type ConfigService struct {
	mock.Mock
}

func (m *ConfigService) WebhookURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *ConfigService) WebhookTimeout() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *ConfigService) DeliveryReportDelay() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *ConfigService) DeliveredPct() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *ConfigService) ReadPct() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *ConfigService) IsTypingEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *ConfigService) AgentID() string {
	args := m.Called()
	return args.String(0)
}

func (m *ConfigService) Features() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *ConfigService) GetAll() map[string]any {
	args := m.Called()
	return args.Get(0).(map[string]any)
}

func (m *ConfigService) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *ConfigService) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *ConfigService) ResetAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
