package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"daybook/internal/calendar"
	"daybook/internal/calendar/google"
	apperrors "daybook/internal/errors"
	"daybook/internal/logger"
	"daybook/internal/models"
)

// syncService pushes local events to the user's connected calendar
// providers, using the mapping store to decide between create and
// update. Conflicts are resolved by always overwriting the remote with
// the local state.
type syncService struct {
	db       *gorm.DB
	mappings *mappingStore
	resolver ProviderResolver
}

// NewSyncService creates a new SyncServicer.
func NewSyncService(db *gorm.DB, resolver ProviderResolver) SyncServicer {
	return &syncService{
		db:       db,
		mappings: newMappingStore(db),
		resolver: resolver,
	}
}

// projectEvent renders a local event into the provider-neutral shape.
func projectEvent(event *models.Event) calendar.Event {
	loc := time.UTC
	return calendar.Event{
		Title:           event.Title,
		Notes:           event.Notes,
		Start:           event.StartAt(loc),
		End:             event.EndAt(loc),
		AllDay:          event.AllDay,
		Recurrence:      event.RecurrenceRule(),
		ReminderMinutes: event.ReminderMinutes,
		TimeZone:        "UTC",
	}
}

// accounts loads the user's calendar accounts, optionally narrowed to
// one provider.
func (s *syncService) accounts(userID string, provider string) ([]models.CalendarAccount, error) {
	q := s.db.Where("user_id = ?", userID)
	if provider != "" {
		q = q.Where("provider = ?", provider)
	}
	var accounts []models.CalendarAccount
	if err := q.Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// syncToAccount pushes one event to one account. A disabled account is a
// silent no-op; a signed-out account is an authorization error. The
// mapping decides create vs update: a mapped event whose remote object
// still exists is overwritten in place, anything else gets a fresh
// create whose returned id replaces the mapping. This keeps at most one
// remote object per local event by construction.
func (s *syncService) syncToAccount(ctx context.Context, event *models.Event, account *models.CalendarAccount) error {
	if !account.SyncEnabled {
		return nil
	}
	if account.State != models.AuthStateSignedIn {
		return apperrors.ErrNotAuthorized
	}

	provider, err := s.resolver.Resolve(account)
	if err != nil {
		return err
	}

	payload := projectEvent(event)

	if remoteID, ok := s.mappings.Get(provider.Name(), event.ID); ok {
		exists, err := provider.Exists(ctx, remoteID)
		if err != nil {
			return err
		}
		if exists {
			return provider.Update(ctx, remoteID, payload)
		}
		// The remote object vanished behind our back; recreate it and
		// let the new id replace the stale mapping.
	}

	remoteID, err := provider.Create(ctx, payload)
	if err != nil {
		return err
	}
	s.mappings.Set(provider.Name(), event.ID, remoteID)
	return nil
}

// SyncEvent implements SyncServicer.
func (s *syncService) SyncEvent(ctx context.Context, event *models.Event) []SyncFailure {
	accounts, err := s.accounts(event.UserID, "")
	if err != nil {
		return []SyncFailure{{EventID: event.ID, Err: err, Message: err.Error()}}
	}

	var failures []SyncFailure
	for i := range accounts {
		if err := s.syncToAccount(ctx, event, &accounts[i]); err != nil {
			failures = append(failures, SyncFailure{
				EventID:  event.ID,
				Provider: accounts[i].Provider,
				Err:      err,
				Message:  err.Error(),
			})
		}
	}
	return failures
}

// SyncEventTo implements SyncServicer.
func (s *syncService) SyncEventTo(ctx context.Context, event *models.Event, provider string) error {
	accounts, err := s.accounts(event.UserID, provider)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return apperrors.ErrNotAuthorized
	}
	return s.syncToAccount(ctx, event, &accounts[0])
}

// deleteFromAccount removes the event's remote counterpart from one
// account. A missing mapping means there is nothing remote to remove.
// For the local calendar the mapping is dropped regardless of the delete
// outcome; for the HTTP provider it is dropped only after confirmed
// success, so a failed network delete stays retryable instead of
// orphaning a live remote event.
func (s *syncService) deleteFromAccount(ctx context.Context, event *models.Event, account *models.CalendarAccount) error {
	provider, err := s.resolver.Resolve(account)
	if err != nil {
		return err
	}

	remoteID, ok := s.mappings.Get(provider.Name(), event.ID)
	if !ok {
		return nil
	}

	if err := provider.Delete(ctx, remoteID); err != nil {
		if provider.BestEffortDelete() {
			logger.Get().Warnw("best-effort remote delete failed, dropping mapping anyway",
				"provider", provider.Name(),
				"event_id", event.ID,
				"error", err,
			)
			s.mappings.Remove(provider.Name(), event.ID)
			return nil
		}
		return err
	}

	s.mappings.Remove(provider.Name(), event.ID)
	return nil
}

// DeleteEvent implements SyncServicer.
func (s *syncService) DeleteEvent(ctx context.Context, event *models.Event) []SyncFailure {
	accounts, err := s.accounts(event.UserID, "")
	if err != nil {
		return []SyncFailure{{EventID: event.ID, Err: err, Message: err.Error()}}
	}

	var failures []SyncFailure
	for i := range accounts {
		if err := s.deleteFromAccount(ctx, event, &accounts[i]); err != nil {
			failures = append(failures, SyncFailure{
				EventID:  event.ID,
				Provider: accounts[i].Provider,
				Err:      err,
				Message:  err.Error(),
			})
		}
	}
	return failures
}

// SyncAll implements SyncServicer. Each event is pushed independently;
// one bad event must not strand the rest of the batch.
func (s *syncService) SyncAll(ctx context.Context, userID string) ([]SyncFailure, error) {
	var events []models.Event
	if err := s.db.Where("user_id = ?", userID).Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var failures []SyncFailure
	for i := range events {
		failures = append(failures, s.SyncEvent(ctx, &events[i])...)
	}
	return failures, nil
}

// RemoteAgenda implements SyncServicer. Only the HTTP provider has a
// readable agenda.
func (s *syncService) RemoteAgenda(ctx context.Context, userID string, from, to time.Time) ([]google.RemoteEvent, error) {
	accounts, err := s.accounts(userID, models.ProviderGoogle)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 || accounts[0].State != models.AuthStateSignedIn {
		return nil, apperrors.ErrNotAuthorized
	}

	provider, err := s.resolver.Resolve(&accounts[0])
	if err != nil {
		return nil, err
	}
	client, ok := provider.(*google.Client)
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, errors.New("provider has no agenda listing"))
	}
	return client.List(ctx, from, to)
}
