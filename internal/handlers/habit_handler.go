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

// HabitHandler handles habit requests
type HabitHandler struct {
	habitService services.HabitServicer
}

// NewHabitHandler creates a new HabitHandler
func NewHabitHandler(habitService services.HabitServicer) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

// CreateHabitRequest represents the habit creation payload
type CreateHabitRequest struct {
	Name          string  `json:"name" binding:"required,max=100"`
	Icon          string  `json:"icon" binding:"max=50"`
	Color         string  `json:"color" binding:"omitempty,hex_color"`
	Frequency     string  `json:"frequency" binding:"required,frequency"`
	ScheduleStart string  `json:"schedule_start" binding:"required"`
	ScheduleEnd   *string `json:"schedule_end"`
}

// CompleteEntryRequest represents the entry completion payload
type CompleteEntryRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// CreateHabit handles habit creation
// @Summary     Create a habit
// @Tags        habits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateHabitRequest true "Habit data"
// @Success     201 {object} map[string]interface{} "Created habit"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /habits [post]
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	start, err := time.Parse(dayLayout, req.ScheduleStart)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "schedule_start must be YYYY-MM-DD"))
		return
	}

	var end *time.Time
	if req.ScheduleEnd != nil && *req.ScheduleEnd != "" {
		parsed, err := time.Parse(dayLayout, *req.ScheduleEnd)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "schedule_end must be YYYY-MM-DD"))
			return
		}
		end = &parsed
	}

	habit, err := h.habitService.CreateHabit(userID, req.Name, req.Icon, req.Color, recurrence.Frequency(req.Frequency), start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"habit": habit})
}

// ListHabits handles listing habits
// @Summary     List habits
// @Tags        habits
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated habits"
// @Router      /habits [get]
func (h *HabitHandler) ListHabits(c *gin.Context) {
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

	result, err := h.habitService.GetUserHabits(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHabit handles fetching a single habit
// @Summary     Get a habit
// @Tags        habits
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Habit ID"
// @Success     200 {object} map[string]interface{} "Habit"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /habits/{id} [get]
func (h *HabitHandler) GetHabit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	habit, err := h.habitService.GetHabitByID(userID, habitID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habit})
}

// DeleteHabit handles habit deletion
// @Summary     Delete a habit
// @Description Delete a habit together with its materialized entries
// @Tags        habits
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Habit ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /habits/{id} [delete]
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.habitService.DeleteHabit(userID, habitID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListHabitEntries handles listing a habit's entries
// @Summary     List habit entries
// @Tags        habits
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Habit ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated entries"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /habits/{id}/entries [get]
func (h *HabitHandler) ListHabitEntries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.habitService.GetHabitEntries(userID, habitID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompleteEntry handles marking a habit entry done
// @Summary     Complete a habit entry
// @Tags        habits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Param       request body CompleteEntryRequest false "Optional note"
// @Success     200 {object} map[string]interface{} "Completed entry"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /habits/entries/{id}/complete [post]
func (h *HabitHandler) CompleteEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CompleteEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	entry, err := h.habitService.CompleteEntry(userID, entryID, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}
