package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sboli/rcstrap/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOverrideNotFound = errors.New("CONFIG_OVERRIDE_NOT_FOUND")

type ConfigRepository interface {
	Get(ctx context.Context, key string) (*model.ConfigOverride, error)
	Upsert(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) error
}

type Config struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &Config{db: db}
}

func (c *Config) Get(ctx context.Context, key string) (*model.ConfigOverride, error) {
	var override model.ConfigOverride

	err := c.db.WithContext(ctx).Where("key = ?", key).First(&override).Error
	if err == nil {
		return &override, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOverrideNotFound
	}

	return nil, err
}

func (c *Config) Upsert(ctx context.Context, key, value string) error {
	override := model.ConfigOverride{Key: key, Value: value, UpdatedAt: time.Now()}

	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&override).Error
}

func (c *Config) Delete(ctx context.Context, key string) error {
	return c.db.WithContext(ctx).Where("key = ?", key).Delete(&model.ConfigOverride{}).Error
}

func (c *Config) DeleteAll(ctx context.Context) error {
	return c.db.WithContext(ctx).Where("1 = 1").Delete(&model.ConfigOverride{}).Error
}
