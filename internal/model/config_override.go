package model

import "time"

// ConfigOverride is an operator-set simulation parameter stored in the
// database. Overrides win over environment variables and built-in defaults
// and are resolved on every read, never cached.
type ConfigOverride struct {
	Key       string    `gorm:"primaryKey;column:key" json:"key"`
	Value     string    `gorm:"column:value;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}
