package models

import "time"

// JournalEntry is a dated free-form note with an optional mood tag.
type JournalEntry struct {
	Base
	UserID string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Day    time.Time `gorm:"not null" json:"day"`
	Title  string    `json:"title"`
	Body   string    `gorm:"type:text" json:"body"`
	Mood   string    `json:"mood"`
}
