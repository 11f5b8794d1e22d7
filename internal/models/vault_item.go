package models

import "fmt"

// VaultItem holds the metadata of a stored credential. The password and
// private notes never touch this table; they live in the secret store
// under deterministic per-item keys.
type VaultItem struct {
	Base
	UserID   string `gorm:"type:uuid;not null;index" json:"user_id"`
	Title    string `gorm:"not null" json:"title"`
	Username string `json:"username"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// PasswordKey returns the secret-store key for this item's password.
func (v *VaultItem) PasswordKey() string {
	return fmt.Sprintf("%s-password", v.ID)
}

// NotesKey returns the secret-store key for this item's private notes.
func (v *VaultItem) NotesKey() string {
	return fmt.Sprintf("%s-notes", v.ID)
}
