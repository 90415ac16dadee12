package repository

import (
	"context"
	"errors"

	"github.com/sboli/rcstrap/internal/model"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("MESSAGE_NOT_FOUND")

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	Update(ctx context.Context, message *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	GetByMessageID(ctx context.Context, messageID string) (*model.Message, error)
	ListByPhone(ctx context.Context, phone string, limit, offset int) ([]model.Message, error)
	Conversations(ctx context.Context) ([]ConversationRow, error)
}

// ConversationRow is one phone's latest message plus its total count,
// produced by a single window-function query.
type ConversationRow struct {
	Phone         string `gorm:"column:phone"`
	LastMessage   []byte `gorm:"column:last_message"`
	LastCreatedAt string `gorm:"column:last_created_at"`
	Total         int    `gorm:"column:total"`
}

type Message struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &Message{db: db}
}

func (m *Message) Create(ctx context.Context, message *model.Message) error {
	return m.db.WithContext(ctx).Create(message).Error
}

func (m *Message) Update(ctx context.Context, message *model.Message) error {
	return m.db.WithContext(ctx).Model(message).
		Where("id = ?", message.ID).
		Select("status", "delivered_at", "read_at", "revoked_at").
		Updates(message).Error
}

func (m *Message) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var message model.Message

	err := m.db.WithContext(ctx).Where("id = ?", id).First(&message).Error
	if err == nil {
		return &message, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}

	return nil, err
}

func (m *Message) GetByMessageID(ctx context.Context, messageID string) (*model.Message, error) {
	var message model.Message

	err := m.db.WithContext(ctx).Where("message_id = ?", messageID).First(&message).Error
	if err == nil {
		return &message, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}

	return nil, err
}

func (m *Message) ListByPhone(ctx context.Context, phone string, limit, offset int) ([]model.Message, error) {
	var messages []model.Message

	err := m.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (m *Message) Conversations(ctx context.Context) ([]ConversationRow, error) {
	var rows []ConversationRow

	err := m.db.WithContext(ctx).Raw(`
		SELECT
			phone,
			payload AS last_message,
			created_at AS last_created_at,
			COUNT(*) OVER (PARTITION BY phone) AS total
		FROM messages
		WHERE (phone, created_at) IN (
			SELECT phone, MAX(created_at)
			FROM messages
			GROUP BY phone
		)
		ORDER BY created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
