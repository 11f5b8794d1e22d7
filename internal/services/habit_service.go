package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "daybook/internal/errors"
	"daybook/internal/models"
	"daybook/internal/pagination"
	"daybook/internal/recurrence"
)

// habitService handles habit business logic.
type habitService struct {
	db *gorm.DB
}

// NewHabitService creates a new HabitServicer.
func NewHabitService(db *gorm.DB) HabitServicer {
	return &habitService{db: db}
}

// CreateHabit creates a new habit.
func (s *habitService) CreateHabit(userID, name, icon, color string, frequency recurrence.Frequency, scheduleStart time.Time, scheduleEnd *time.Time) (*models.Habit, error) {
	// Validate input
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "habit name is required")
	}
	if !frequency.Repeats() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a habit needs a repeating frequency")
	}
	if scheduleStart.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "schedule start is required")
	}
	if scheduleEnd != nil && scheduleEnd.Before(scheduleStart) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "schedule end must not be before its start")
	}

	habit := &models.Habit{
		UserID:        userID,
		Name:          name,
		Icon:          icon,
		Color:         color,
		Frequency:     frequency,
		ScheduleStart: scheduleStart,
		ScheduleEnd:   scheduleEnd,
	}

	if err := s.db.Create(habit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return habit, nil
}

// GetUserHabits retrieves a paginated list of habits for a user.
func (s *habitService) GetUserHabits(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Habit], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Habit{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var habits []models.Habit
	if err := base.Scopes(pagination.Paginate(page)).Find(&habits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(habits, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetHabitByID retrieves a habit by ID for a specific user
func (s *habitService) GetHabitByID(userID, habitID string) (*models.Habit, error) {
	var habit models.Habit
	if err := s.db.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHabitNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &habit, nil
}

// DeleteHabit removes a habit together with its entries, so a deleted
// habit's history cannot resurface in streak counts.
func (s *habitService) DeleteHabit(userID, habitID string) error {
	habit, err := s.GetHabitByID(userID, habitID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", habitID).Delete(&models.HabitEntry{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(habit).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetHabitEntries retrieves the materialized entries of one habit, newest
// day first.
func (s *habitService) GetHabitEntries(userID, habitID string, page pagination.PageRequest) (*pagination.PageResponse[models.HabitEntry], error) {
	if _, err := s.GetHabitByID(userID, habitID); err != nil {
		return nil, err
	}

	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.HabitEntry{}).Where("habit_id = ?", habitID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.HabitEntry
	if err := base.Order("day DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// CompleteEntry marks a materialized entry done, with an optional note.
func (s *habitService) CompleteEntry(userID, entryID string, note string) (*models.HabitEntry, error) {
	var entry models.HabitEntry
	if err := s.db.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHabitEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{"completed": true}
	if note != "" {
		updates["note"] = note
	}
	if err := s.db.Model(&entry).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &entry, nil
}
