package models

import (
	"time"

	"daybook/internal/uuid"

	"gorm.io/gorm"
)

// EventMapping associates a local event with its counterpart in an
// external calendar. At most one remote object exists per (provider,
// event) pair; the mapping is created on first successful remote create
// and removed when either side is deleted.
//
// The mapping is a best-effort cache, not a source of truth: the local
// store and the remote calendar remain authoritative.
type EventMapping struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Provider  string    `gorm:"not null;uniqueIndex:idx_event_mappings_provider_event" json:"provider"`
	EventID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_event_mappings_provider_event" json:"event_id"`
	RemoteID  string    `gorm:"not null" json:"remote_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUIDv7 for new mappings. The mapping table
// deliberately has no soft delete: a removed mapping is gone.
func (m *EventMapping) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New()
	}
	return nil
}
