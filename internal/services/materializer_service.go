package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "daybook/internal/errors"
	"daybook/internal/logger"
	"daybook/internal/models"
	"daybook/internal/recurrence"
)

// materializerService expands recurring templates into concrete rows.
// It is idempotent: a day that already has its instance is skipped, so
// the walk can run on every startup and on a daily tick without
// duplicating anything.
type materializerService struct {
	db *gorm.DB
}

// NewMaterializerService creates a new MaterializerServicer.
func NewMaterializerService(db *gorm.DB) MaterializerServicer {
	return &materializerService{db: db}
}

// dayKey truncates an instant to its calendar day in UTC. All schedule
// comparisons happen on day keys so wall-clock noise in stored dates
// cannot split one due day into two.
func dayKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// walkSchedule yields every due day of the rule in (anchor, asOf] when
// includeAnchor is false, or [anchor, asOf] when true. The walk stops as
// soon as the rule stops advancing, which guards against a malformed
// rule looping forever.
func walkSchedule(rule *recurrence.Rule, anchor, asOf time.Time, includeAnchor bool) []time.Time {
	anchor = dayKey(anchor)
	asOf = dayKey(asOf)

	var due []time.Time
	day := anchor
	if includeAnchor && !day.After(asOf) && (rule.Until == nil || !day.After(dayKey(*rule.Until))) {
		due = append(due, day)
	}
	for {
		next := rule.Step(day)
		if !next.After(day) {
			break
		}
		day = next
		if day.After(asOf) {
			break
		}
		if rule.Until != nil && day.After(dayKey(*rule.Until)) {
			break
		}
		due = append(due, day)
	}
	return due
}

// MaterializeExpenses implements MaterializerServicer. The template's
// own date is never duplicated: the template row already represents the
// first occurrence, so the walk starts one step past the anchor.
func (s *materializerService) MaterializeExpenses(userID string, asOf time.Time) ([]models.Expense, error) {
	var templates []models.Expense
	if err := s.db.Where("user_id = ? AND is_recurring = ?", userID, true).Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var created []models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range templates {
			template := &templates[i]
			rule := template.ScheduleRule()
			if rule == nil {
				logger.Get().Warnw("recurring expense has no usable schedule, skipping",
					"expense_id", template.ID,
					"frequency", template.Frequency,
				)
				continue
			}

			for _, day := range walkSchedule(rule, template.Anchor(), asOf, false) {
				// A day is already materialized when a concrete
				// instance with the template's category, amount and
				// day exists. Amount is part of the match so two
				// templates in one category never shadow each other.
				var count int64
				if err := tx.Model(&models.Expense{}).
					Where("user_id = ? AND category_id = ? AND amount = ? AND date = ? AND is_recurring = ?",
						userID, template.CategoryID, template.Amount, day, false).
					Count(&count).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				if count > 0 {
					continue
				}

				instance := models.Expense{
					UserID:     userID,
					CategoryID: template.CategoryID,
					Amount:     template.Amount,
					Date:       day,
					Note:       template.Note + models.SyntheticNoteSuffix,
				}
				if err := tx.Create(&instance).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				created = append(created, instance)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// MaterializeHabits implements MaterializerServicer. Unlike expenses,
// the habit row itself is no instance, so the schedule start day gets an
// entry too.
func (s *materializerService) MaterializeHabits(userID string, asOf time.Time) ([]models.HabitEntry, error) {
	var habits []models.Habit
	if err := s.db.Where("user_id = ?", userID).Find(&habits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var created []models.HabitEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range habits {
			habit := &habits[i]
			rule := habit.ScheduleRule()
			if rule == nil {
				logger.Get().Warnw("habit has no usable schedule, skipping",
					"habit_id", habit.ID,
					"frequency", habit.Frequency,
				)
				continue
			}

			for _, day := range walkSchedule(rule, habit.ScheduleStart, asOf, true) {
				var count int64
				if err := tx.Model(&models.HabitEntry{}).
					Where("habit_id = ? AND day = ?", habit.ID, day).
					Count(&count).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				if count > 0 {
					continue
				}

				entry := models.HabitEntry{
					HabitID: habit.ID,
					UserID:  userID,
					Day:     day,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				created = append(created, entry)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// MaterializeAll implements MaterializerServicer.
func (s *materializerService) MaterializeAll(asOf time.Time) error {
	var userIDs []string
	if err := s.db.Model(&models.User{}).Pluck("id", &userIDs).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, userID := range userIDs {
		if _, err := s.MaterializeExpenses(userID, asOf); err != nil {
			return fmt.Errorf("materialize expenses for user %s: %w", userID, err)
		}
		if _, err := s.MaterializeHabits(userID, asOf); err != nil {
			return fmt.Errorf("materialize habits for user %s: %w", userID, err)
		}
	}
	return nil
}
