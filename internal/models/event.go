package models

import (
	"time"

	"daybook/internal/recurrence"
)

// clockLayout is the stored form of the optional start/end time-of-day.
const clockLayout = "15:04"

// Event is a calendar event owned by the app's own store, independent of
// any external calendar it may be synced to.
type Event struct {
	Base
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Title  string `gorm:"not null" json:"title"`

	// Day is the calendar day the event falls on. Time-of-day lives in
	// StartTime/EndTime so an all-day event carries no clock at all.
	Day       time.Time `gorm:"not null" json:"day"`
	StartTime *string   `gorm:"size:5" json:"start_time,omitempty"`
	EndTime   *string   `gorm:"size:5" json:"end_time,omitempty"`
	AllDay    bool      `json:"all_day"`

	Notes string `json:"notes"`

	Recurrence      recurrence.Frequency `gorm:"default:none" json:"recurrence"`
	RecurrenceUntil *time.Time           `json:"recurrence_until,omitempty"`

	// ReminderMinutes is the single relative alarm, minutes before start.
	ReminderMinutes *int `json:"reminder_minutes,omitempty"`
}

// StartAt returns the effective start instant in loc: local midnight for
// all-day events, otherwise Day combined with StartTime.
func (e *Event) StartAt(loc *time.Location) time.Time {
	midnight := time.Date(e.Day.Year(), e.Day.Month(), e.Day.Day(), 0, 0, 0, 0, loc)
	if e.AllDay || e.StartTime == nil {
		return midnight
	}
	clock, err := time.Parse(clockLayout, *e.StartTime)
	if err != nil {
		return midnight
	}
	return midnight.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}

// EndAt returns the effective end instant in loc: midnight the following
// day for all-day events, the explicit end time when set, otherwise one
// hour after the start.
func (e *Event) EndAt(loc *time.Location) time.Time {
	start := e.StartAt(loc)
	if e.AllDay {
		return start.AddDate(0, 0, 1)
	}
	if e.EndTime != nil {
		clock, err := time.Parse(clockLayout, *e.EndTime)
		if err == nil {
			midnight := time.Date(e.Day.Year(), e.Day.Month(), e.Day.Day(), 0, 0, 0, 0, loc)
			return midnight.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
		}
	}
	return start.Add(time.Hour)
}

// RecurrenceRule returns the normalized repeat rule, or nil for one-off
// events.
func (e *Event) RecurrenceRule() *recurrence.Rule {
	rule, err := recurrence.New(e.Recurrence, e.RecurrenceUntil)
	if err != nil {
		return nil
	}
	return rule
}
