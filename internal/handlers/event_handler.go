package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "daybook/internal/errors"
	"daybook/internal/pagination"
	"daybook/internal/recurrence"
	"daybook/internal/services"
)

// dayLayout is the wire format of calendar days.
const dayLayout = "2006-01-02"

// EventHandler handles calendar-event requests
type EventHandler struct {
	eventService services.EventServicer
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService services.EventServicer) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventRequest represents the create/update event payload
type EventRequest struct {
	Title           string  `json:"title" binding:"required,max=255"`
	Day             string  `json:"day" binding:"required"`
	StartTime       *string `json:"start_time" binding:"omitempty,clock_time"`
	EndTime         *string `json:"end_time" binding:"omitempty,clock_time"`
	AllDay          bool    `json:"all_day"`
	Notes           string  `json:"notes" binding:"max=2000"`
	Recurrence      string  `json:"recurrence" binding:"omitempty,frequency"`
	RecurrenceUntil *string `json:"recurrence_until"`
	ReminderMinutes *int    `json:"reminder_minutes" binding:"omitempty,min=0,max=40320"`
}

// toInput converts the request into a service-layer event input.
func (r *EventRequest) toInput() (services.EventInput, error) {
	day, err := time.Parse(dayLayout, r.Day)
	if err != nil {
		return services.EventInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "day must be YYYY-MM-DD")
	}

	freq := recurrence.None
	if r.Recurrence != "" {
		freq = recurrence.Frequency(r.Recurrence)
	}

	var until *time.Time
	if r.RecurrenceUntil != nil && *r.RecurrenceUntil != "" {
		parsed, err := time.Parse(dayLayout, *r.RecurrenceUntil)
		if err != nil {
			return services.EventInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "recurrence_until must be YYYY-MM-DD")
		}
		until = &parsed
	}

	return services.EventInput{
		Title:           r.Title,
		Day:             day,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		AllDay:          r.AllDay,
		Notes:           r.Notes,
		Recurrence:      freq,
		RecurrenceUntil: until,
		ReminderMinutes: r.ReminderMinutes,
	}, nil
}

// CreateEvent handles event creation
// @Summary     Create an event
// @Description Create a calendar event, optionally recurring, and push it to connected calendars
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EventRequest true "Event data"
// @Success     201 {object} map[string]interface{} "Created event"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.CreateEvent(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// ListEvents handles listing events
// @Summary     List events
// @Description List the user's events, optionally bounded to a day range
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       from query string false "Earliest day (YYYY-MM-DD)"
// @Param       to query string false "Latest day (YYYY-MM-DD)"
// @Success     200 {object} map[string]interface{} "Paginated events"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.EventFilter
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(dayLayout, from)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be YYYY-MM-DD"))
			return
		}
		filter.FromDay = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(dayLayout, to)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be YYYY-MM-DD"))
			return
		}
		filter.ToDay = &parsed
	}

	result, err := h.eventService.GetUserEvents(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEvent handles fetching a single event
// @Summary     Get an event
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Success     200 {object} map[string]interface{} "Event"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.GetEventByID(userID, eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// UpdateEvent handles event updates
// @Summary     Update an event
// @Description Replace an event's fields and push the new state to connected calendars
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Param       request body EventRequest true "Event data"
// @Success     200 {object} map[string]interface{} "Updated event"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.UpdateEvent(userID, eventID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent handles event deletion
// @Summary     Delete an event
// @Description Delete an event locally and remove its remote counterparts
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.eventService.DeleteEvent(userID, eventID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
