package model

import (
	"encoding/json"
	"time"
)

type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "SENT"
	MessageStatusDelivered MessageStatus = "DELIVERED"
	MessageStatusRead      MessageStatus = "READ"
	MessageStatusFailed    MessageStatus = "FAILED"
	MessageStatusRevoked   MessageStatus = "REVOKED"
)

type MessageDirection string

const (
	// DirectionMT is agent to user (mobile-terminated).
	DirectionMT MessageDirection = "MT"
	// DirectionMO is user to agent (mobile-originated).
	DirectionMO MessageDirection = "MO"
)

type Message struct {
	ID          string           `gorm:"primaryKey;column:id;<-:create" json:"id"`
	MessageID   string           `gorm:"column:message_id;index:idx_message_phone" json:"messageId"`
	Phone       string           `gorm:"column:phone;index:idx_message_phone" json:"phone"`
	Direction   MessageDirection `gorm:"column:direction" json:"direction"`
	Status      MessageStatus    `gorm:"column:status" json:"status"`
	Payload     json.RawMessage  `gorm:"column:payload" json:"payload"`
	AgentID     *string          `gorm:"column:agent_id" json:"agentId"`
	CreatedAt   time.Time        `gorm:"column:created_at" json:"createdAt"`
	DeliveredAt *time.Time       `gorm:"column:delivered_at" json:"deliveredAt"`
	ReadAt      *time.Time       `gorm:"column:read_at" json:"readAt"`
	RevokedAt   *time.Time       `gorm:"column:revoked_at" json:"revokedAt"`
}

// StampStatus moves the message to the given status and sets the matching
// timestamp the first time that status is reached. Later arrivals at the
// same status leave the original timestamp untouched.
func (m *Message) StampStatus(status MessageStatus, now time.Time) {
	m.Status = status

	switch status {
	case MessageStatusDelivered:
		if m.DeliveredAt == nil {
			m.DeliveredAt = &now
		}
	case MessageStatusRead:
		if m.ReadAt == nil {
			m.ReadAt = &now
		}
	case MessageStatusRevoked:
		if m.RevokedAt == nil {
			m.RevokedAt = &now
		}
	}
}

// Revocable reports whether the message can still be revoked. Once the
// network has confirmed delivery the revocation window is closed.
func (m *Message) Revocable() bool {
	return m.Status != MessageStatusDelivered && m.Status != MessageStatusRead
}
