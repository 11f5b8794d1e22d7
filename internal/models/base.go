package models

import (
	"time"

	"daybook/internal/uuid"

	"gorm.io/gorm"
)

// Base contains the common columns for all tables. IDs are UUIDv7
// strings, so primary keys sort by creation time.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate generates an ID for new records unless one was set,
// which fixtures and imports rely on.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
