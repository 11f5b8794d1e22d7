package models

import (
	"strings"
	"time"

	"daybook/internal/recurrence"
)

// SyntheticNoteSuffix marks expenses generated from a recurring template,
// so they can be told apart from ones the user entered by hand.
const SyntheticNoteSuffix = " (auto)"

// Expense is a single budget entry. A recurring expense acts as a
// template: concrete instances are materialized from it up to today and
// are themselves never recurring.
type Expense struct {
	Base
	UserID     string `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string `gorm:"type:uuid;not null;index" json:"category_id"`

	// Amount is in cents and must be positive.
	Amount int64     `gorm:"type:bigint;not null" json:"amount"`
	Date   time.Time `gorm:"not null" json:"date"`
	Note   string    `json:"note"`

	IsRecurring   bool                 `json:"is_recurring"`
	Frequency     recurrence.Frequency `gorm:"default:none" json:"frequency"`
	ScheduleStart *time.Time           `json:"schedule_start,omitempty"`
	ScheduleEnd   *time.Time           `json:"schedule_end,omitempty"`

	// Relationships
	Category BudgetCategory `gorm:"foreignKey:CategoryID" json:"category"`
}

// IsSynthetic reports whether this expense was materialized from a
// recurring template rather than entered by the user.
func (e *Expense) IsSynthetic() bool {
	return !e.IsRecurring && strings.HasSuffix(e.Note, SyntheticNoteSuffix)
}

// ScheduleRule returns the template's repeat rule, or nil when the
// expense is not a recurring template.
func (e *Expense) ScheduleRule() *recurrence.Rule {
	if !e.IsRecurring {
		return nil
	}
	rule, err := recurrence.New(e.Frequency, e.ScheduleEnd)
	if err != nil {
		return nil
	}
	return rule
}

// Anchor returns the date the schedule walk starts from: the explicit
// schedule start when set, else the template's own date.
func (e *Expense) Anchor() time.Time {
	if e.ScheduleStart != nil {
		return *e.ScheduleStart
	}
	return e.Date
}
