package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "daybook/internal/errors"
	"daybook/internal/logger"
	"daybook/internal/models"
	"daybook/internal/pagination"
)

// syncTimeout bounds the background push that follows a local mutation.
const syncTimeout = 30 * time.Second

// eventService handles event-related business logic. The local store is
// the source of truth: every mutation commits locally first and then
// pushes to connected calendars in the background, so a provider outage
// never blocks the user's own calendar.
type eventService struct {
	db     *gorm.DB
	syncer SyncServicer
}

// NewEventService creates a new EventServicer. A nil syncer disables the
// background push.
func NewEventService(db *gorm.DB, syncer SyncServicer) EventServicer {
	return &eventService{db: db, syncer: syncer}
}

// validateInput checks the time fields of an event input.
// normalizeEventInput discards fields an event cannot use: an all-day
// event ignores time-of-day values, so they are dropped rather than
// rejected.
func normalizeEventInput(input EventInput) EventInput {
	if input.AllDay {
		input.StartTime = nil
		input.EndTime = nil
	}
	return input
}

func validateEventInput(input EventInput) error {
	if input.Title == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "event title is required")
	}
	if input.Day.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "event day is required")
	}
	if !input.Recurrence.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown recurrence frequency")
	}
	if input.StartTime != nil && input.EndTime != nil && *input.EndTime <= *input.StartTime {
		return apperrors.ErrInvalidTimes
	}
	if input.EndTime != nil && input.StartTime == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "an end time requires a start time")
	}
	if input.ReminderMinutes != nil && *input.ReminderMinutes < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "reminder minutes must not be negative")
	}
	return nil
}

// pushAsync fires the background sync for a mutated event. Failures are
// logged, never surfaced: the local write already succeeded.
func (s *eventService) pushAsync(event *models.Event) {
	if s.syncer == nil {
		return
	}
	snapshot := *event
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		for _, failure := range s.syncer.SyncEvent(ctx, &snapshot) {
			logger.Get().Warnw("background event sync failed",
				"event_id", failure.EventID,
				"provider", failure.Provider,
				"error", failure.Err,
			)
		}
	}()
}

// CreateEvent creates a new event and pushes it to connected calendars.
func (s *eventService) CreateEvent(userID string, input EventInput) (*models.Event, error) {
	input = normalizeEventInput(input)
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event := &models.Event{
		UserID:          userID,
		Title:           input.Title,
		Day:             input.Day,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		AllDay:          input.AllDay,
		Notes:           input.Notes,
		Recurrence:      input.Recurrence,
		RecurrenceUntil: input.RecurrenceUntil,
		ReminderMinutes: input.ReminderMinutes,
	}

	if err := s.db.Create(event).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.pushAsync(event)
	return event, nil
}

// GetUserEvents retrieves a paginated list of events, optionally bounded
// to a day range.
func (s *eventService) GetUserEvents(userID string, page pagination.PageRequest, filter EventFilter) (*pagination.PageResponse[models.Event], error) {
	page.Defaults()

	base := s.db.Model(&models.Event{}).Where("user_id = ?", userID)
	if filter.FromDay != nil {
		base = base.Where("day >= ?", *filter.FromDay)
	}
	if filter.ToDay != nil {
		base = base.Where("day <= ?", *filter.ToDay)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var events []models.Event
	if err := base.Order("day ASC, start_time ASC").Scopes(pagination.Paginate(page)).Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(events, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetEventByID retrieves an event by ID for a specific user
func (s *eventService) GetEventByID(userID, eventID string) (*models.Event, error) {
	var event models.Event
	if err := s.db.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &event, nil
}

// UpdateEvent replaces the event's editable fields and pushes the new
// state to connected calendars.
func (s *eventService) UpdateEvent(userID, eventID string, input EventInput) (*models.Event, error) {
	input = normalizeEventInput(input)
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Day = input.Day
	event.StartTime = input.StartTime
	event.EndTime = input.EndTime
	event.AllDay = input.AllDay
	event.Notes = input.Notes
	event.Recurrence = input.Recurrence
	event.RecurrenceUntil = input.RecurrenceUntil
	event.ReminderMinutes = input.ReminderMinutes

	if err := s.db.Save(event).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.pushAsync(event)
	return event, nil
}

// DeleteEvent removes the event locally and then its remote counterparts.
func (s *eventService) DeleteEvent(userID, eventID string) error {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(event).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if s.syncer != nil {
		snapshot := *event
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
			defer cancel()
			for _, failure := range s.syncer.DeleteEvent(ctx, &snapshot) {
				logger.Get().Warnw("background remote delete failed",
					"event_id", failure.EventID,
					"provider", failure.Provider,
					"error", failure.Err,
				)
			}
		}()
	}
	return nil
}
