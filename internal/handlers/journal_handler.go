package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "daybook/internal/errors"
	"daybook/internal/pagination"
	"daybook/internal/services"
)

// JournalHandler handles journal requests
type JournalHandler struct {
	journalService services.JournalServicer
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journalService services.JournalServicer) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// CreateJournalRequest represents the journal entry creation payload
type CreateJournalRequest struct {
	Day   string `json:"day" binding:"required"`
	Title string `json:"title" binding:"max=255"`
	Body  string `json:"body" binding:"required,max=20000"`
	Mood  string `json:"mood" binding:"omitempty,mood"`
}

// UpdateJournalRequest represents the journal entry update payload
type UpdateJournalRequest struct {
	Title string `json:"title" binding:"omitempty,max=255"`
	Body  string `json:"body" binding:"omitempty,max=20000"`
	Mood  string `json:"mood" binding:"omitempty,mood"`
}

// CreateEntry handles journal entry creation
// @Summary     Create a journal entry
// @Tags        journal
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateJournalRequest true "Entry data"
// @Success     201 {object} map[string]interface{} "Created entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /journal [post]
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	day, err := time.Parse(dayLayout, req.Day)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "day must be YYYY-MM-DD"))
		return
	}

	entry, err := h.journalService.CreateEntry(userID, day, req.Title, req.Body, req.Mood)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// ListEntries handles listing journal entries
// @Summary     List journal entries
// @Tags        journal
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated entries"
// @Router      /journal [get]
func (h *JournalHandler) ListEntries(c *gin.Context) {
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

	result, err := h.journalService.GetUserEntries(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEntry handles fetching a single journal entry
// @Summary     Get a journal entry
// @Tags        journal
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     200 {object} map[string]interface{} "Entry"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /journal/{id} [get]
func (h *JournalHandler) GetEntry(c *gin.Context) {
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

	entry, err := h.journalService.GetEntryByID(userID, entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateEntry handles journal entry updates
// @Summary     Update a journal entry
// @Tags        journal
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Param       request body UpdateJournalRequest true "Entry data"
// @Success     200 {object} map[string]interface{} "Updated entry"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /journal/{id} [put]
func (h *JournalHandler) UpdateEntry(c *gin.Context) {
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

	var req UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.journalService.UpdateEntry(userID, entryID, req.Title, req.Body, req.Mood)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry handles journal entry deletion
// @Summary     Delete a journal entry
// @Tags        journal
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /journal/{id} [delete]
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
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

	if err := h.journalService.DeleteEntry(userID, entryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
