package models

import (
	"time"

	"daybook/internal/recurrence"
)

// Habit is a recurring practice the user wants to keep up. Its schedule
// is materialized into HabitEntry rows, one per due day.
type Habit struct {
	Base
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`

	Frequency     recurrence.Frequency `gorm:"default:daily" json:"frequency"`
	ScheduleStart time.Time            `gorm:"not null" json:"schedule_start"`
	ScheduleEnd   *time.Time           `json:"schedule_end,omitempty"`

	// Relationships
	Entries []HabitEntry `gorm:"foreignKey:HabitID" json:"entries,omitempty"`
}

// ScheduleRule returns the habit's repeat rule.
func (h *Habit) ScheduleRule() *recurrence.Rule {
	rule, err := recurrence.New(h.Frequency, h.ScheduleEnd)
	if err != nil {
		return nil
	}
	return rule
}

// HabitEntry is one due day of a habit. Entries are created pending by
// the materializer and completed by the user.
type HabitEntry struct {
	Base
	HabitID   string    `gorm:"type:uuid;not null;index" json:"habit_id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Day       time.Time `gorm:"not null" json:"day"`
	Completed bool      `json:"completed"`
	Note      string    `json:"note"`
}
