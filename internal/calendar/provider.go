// Package calendar defines the provider-neutral contract for external
// calendar integrations. A provider is the write side of one external
// calendar: the local ICS calendar file or the remote HTTP service.
package calendar

import (
	"context"
	"errors"
	"time"

	"daybook/internal/recurrence"
)

// ErrRemoteNotFound is returned by Exists/Update/Delete when the remote
// object no longer exists.
var ErrRemoteNotFound = errors.New("calendar: remote event not found")

// Event is the provider-neutral projection of a local event, carrying
// everything a provider needs to render its own representation.
type Event struct {
	Title           string
	Notes           string
	Start           time.Time
	End             time.Time
	AllDay          bool
	Recurrence      *recurrence.Rule
	ReminderMinutes *int
	TimeZone        string
}

// Provider is one external calendar integration.
type Provider interface {
	// Name is the stable provider identifier used in mapping rows.
	Name() string

	// Exists reports whether the remote object is still present.
	Exists(ctx context.Context, remoteID string) (bool, error)

	// Create pushes a new remote object and returns its identifier.
	Create(ctx context.Context, ev Event) (string, error)

	// Update overwrites the remote object's fields from ev.
	Update(ctx context.Context, remoteID string, ev Event) error

	// Delete removes the remote object. A remote that is already gone
	// is not an error.
	Delete(ctx context.Context, remoteID string) error

	// BestEffortDelete reports whether a failed Delete should still
	// drop the identifier mapping. True for the local ICS calendar,
	// where a failure cannot leave an orphaned remote object worth
	// retrying; false for the HTTP provider, where forgetting the
	// mapping would orphan a still-existing remote event.
	BestEffortDelete() bool
}
