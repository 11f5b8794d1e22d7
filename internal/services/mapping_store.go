package services

import (
	"errors"

	"gorm.io/gorm"

	"daybook/internal/logger"
	"daybook/internal/models"
)

// mappingStore is the identifier mapping table: local event id to remote
// object id, scoped per provider. It is a best-effort cache — mutation
// failures are logged and swallowed, since the local store and the remote
// calendar stay authoritative either way.
type mappingStore struct {
	db *gorm.DB
}

func newMappingStore(db *gorm.DB) *mappingStore {
	return &mappingStore{db: db}
}

// Get returns the remote id mapped to (provider, eventID), if any.
func (m *mappingStore) Get(provider, eventID string) (string, bool) {
	var mapping models.EventMapping
	err := m.db.Where("provider = ? AND event_id = ?", provider, eventID).First(&mapping).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Get().Errorw("mapping lookup failed",
				"provider", provider,
				"event_id", eventID,
				"error", err,
			)
		}
		return "", false
	}
	return mapping.RemoteID, true
}

// Set records remoteID for (provider, eventID), replacing any previous
// entry. The unique index keeps this at most one remote id per pair.
func (m *mappingStore) Set(provider, eventID, remoteID string) {
	mapping := models.EventMapping{Provider: provider, EventID: eventID}
	err := m.db.
		Where("provider = ? AND event_id = ?", provider, eventID).
		Assign(models.EventMapping{RemoteID: remoteID}).
		FirstOrCreate(&mapping).Error
	if err != nil {
		logger.Get().Errorw("mapping write failed",
			"provider", provider,
			"event_id", eventID,
			"remote_id", remoteID,
			"error", err,
		)
		return
	}
	if mapping.RemoteID != remoteID {
		if err := m.db.Model(&mapping).Update("remote_id", remoteID).Error; err != nil {
			logger.Get().Errorw("mapping update failed",
				"provider", provider,
				"event_id", eventID,
				"error", err,
			)
		}
	}
}

// Remove drops the mapping for (provider, eventID). Removing a missing
// entry is a no-op.
func (m *mappingStore) Remove(provider, eventID string) {
	err := m.db.Where("provider = ? AND event_id = ?", provider, eventID).
		Delete(&models.EventMapping{}).Error
	if err != nil {
		logger.Get().Errorw("mapping remove failed",
			"provider", provider,
			"event_id", eventID,
			"error", err,
		)
	}
}

// Count returns the number of mapping rows for an event across all
// providers. Used by cleanup paths and tests.
func (m *mappingStore) Count(eventID string) int64 {
	var n int64
	if err := m.db.Model(&models.EventMapping{}).Where("event_id = ?", eventID).Count(&n).Error; err != nil {
		logger.Get().Errorw("mapping count failed", "event_id", eventID, "error", err)
	}
	return n
}
