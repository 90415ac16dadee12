package mocks

import (
	"context"

	"github.com/sboli/rcstrap/internal/model"
	"github.com/stretchr/testify/mock"
)

type ConfigRepository struct {
	mock.Mock
}

func (m *ConfigRepository) Get(ctx context.Context, key string) (*model.ConfigOverride, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConfigOverride), args.Error(1)
}

func (m *ConfigRepository) Upsert(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *ConfigRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *ConfigRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
