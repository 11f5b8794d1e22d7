package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"daybook/internal/services"
)

// MaterializeHandler exposes a manual trigger for the recurrence
// materializer. The scheduler runs the same walk daily; this endpoint
// lets a client catch up immediately after creating a template.
type MaterializeHandler struct {
	materializer services.MaterializerServicer
}

// NewMaterializeHandler creates a new MaterializeHandler
func NewMaterializeHandler(materializer services.MaterializerServicer) *MaterializeHandler {
	return &MaterializeHandler{materializer: materializer}
}

// Materialize expands the user's recurring templates up to today
// @Summary     Materialize recurring expenses and habits
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Created instances"
// @Router      /materialize [post]
func (h *MaterializeHandler) Materialize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now()

	expenses, err := h.materializer.MaterializeExpenses(userID, now)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.materializer.MaterializeHabits(userID, now)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expenses_created":      len(expenses),
		"habit_entries_created": len(entries),
	})
}
