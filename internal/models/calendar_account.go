package models

import "fmt"

// Calendar provider names.
const (
	ProviderICS    = "ics"
	ProviderGoogle = "google"
)

// AuthState is the authentication lifecycle of a calendar account.
type AuthState string

const (
	AuthStateSignedOut      AuthState = "signed_out"
	AuthStateAuthenticating AuthState = "authenticating"
	AuthStateSignedIn       AuthState = "signed_in"
)

// CalendarAccount is one connected external calendar for a user. Access
// and refresh tokens are kept in the secret store, not here. SyncEnabled
// is orthogonal to the authentication state: pushing an event requires
// both a signed-in account and the toggle on.
type CalendarAccount struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_calendar_accounts_user_provider" json:"user_id"`
	Provider    string    `gorm:"not null;uniqueIndex:idx_calendar_accounts_user_provider" json:"provider"`
	Email       string    `json:"email"`
	State       AuthState `gorm:"default:signed_out" json:"state"`
	SyncEnabled bool      `gorm:"default:true" json:"sync_enabled"`
}

// AccessTokenKey returns the secret-store key for the access token.
func (a *CalendarAccount) AccessTokenKey() string {
	return fmt.Sprintf("%s-access-token", a.ID)
}

// RefreshTokenKey returns the secret-store key for the refresh token.
func (a *CalendarAccount) RefreshTokenKey() string {
	return fmt.Sprintf("%s-refresh-token", a.ID)
}
