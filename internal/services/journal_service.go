package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "daybook/internal/errors"
	"daybook/internal/models"
	"daybook/internal/pagination"
)

// journalService handles journal business logic.
type journalService struct {
	db *gorm.DB
}

// NewJournalService creates a new JournalServicer.
func NewJournalService(db *gorm.DB) JournalServicer {
	return &journalService{db: db}
}

// CreateEntry creates a new journal entry.
func (s *journalService) CreateEntry(userID string, day time.Time, title, body, mood string) (*models.JournalEntry, error) {
	if day.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "entry day is required")
	}
	if body == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "entry body is required")
	}

	entry := &models.JournalEntry{
		UserID: userID,
		Day:    day,
		Title:  title,
		Body:   body,
		Mood:   mood,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return entry, nil
}

// GetUserEntries retrieves a paginated list of journal entries, newest
// day first.
func (s *journalService) GetUserEntries(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.JournalEntry], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.JournalEntry{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.JournalEntry
	if err := base.Order("day DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetEntryByID retrieves a journal entry by ID for a specific user
func (s *journalService) GetEntryByID(userID, entryID string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	if err := s.db.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJournalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateEntry updates an existing journal entry.
func (s *journalService) UpdateEntry(userID, entryID, title, body, mood string) (*models.JournalEntry, error) {
	entry, err := s.GetEntryByID(userID, entryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != "" {
		updates["title"] = title
	}
	if body != "" {
		updates["body"] = body
	}
	if mood != "" {
		updates["mood"] = mood
	}

	if len(updates) > 0 {
		if err := s.db.Model(entry).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return entry, nil
}

// DeleteEntry deletes a journal entry.
func (s *journalService) DeleteEntry(userID, entryID string) error {
	entry, err := s.GetEntryByID(userID, entryID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
