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

// ExpenseHandler handles expense requests
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest represents the create/update expense payload. Amount is
// in cents.
type ExpenseRequest struct {
	CategoryID    string  `json:"category_id" binding:"required,uuid"`
	Amount        int64   `json:"amount" binding:"required,gt=0"`
	Date          string  `json:"date" binding:"required"`
	Note          string  `json:"note" binding:"max=500"`
	IsRecurring   bool    `json:"is_recurring"`
	Frequency     string  `json:"frequency" binding:"omitempty,frequency"`
	ScheduleStart *string `json:"schedule_start"`
	ScheduleEnd   *string `json:"schedule_end"`
}

// toInput converts the request into a service-layer expense input.
func (r *ExpenseRequest) toInput() (services.ExpenseInput, error) {
	date, err := time.Parse(dayLayout, r.Date)
	if err != nil {
		return services.ExpenseInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}

	freq := recurrence.None
	if r.Frequency != "" {
		freq = recurrence.Frequency(r.Frequency)
	}

	parseDay := func(s *string, field string) (*time.Time, error) {
		if s == nil || *s == "" {
			return nil, nil
		}
		parsed, err := time.Parse(dayLayout, *s)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must be YYYY-MM-DD")
		}
		return &parsed, nil
	}

	start, err := parseDay(r.ScheduleStart, "schedule_start")
	if err != nil {
		return services.ExpenseInput{}, err
	}
	end, err := parseDay(r.ScheduleEnd, "schedule_end")
	if err != nil {
		return services.ExpenseInput{}, err
	}

	return services.ExpenseInput{
		CategoryID:    r.CategoryID,
		Amount:        r.Amount,
		Date:          date,
		Note:          r.Note,
		IsRecurring:   r.IsRecurring,
		Frequency:     freq,
		ScheduleStart: start,
		ScheduleEnd:   end,
	}, nil
}

// CreateExpense handles expense creation
// @Summary     Create an expense
// @Description Create a one-off expense or a recurring template
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense data"
// @Success     201 {object} map[string]interface{} "Created expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budget/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// ListExpenses handles listing expenses
// @Summary     List expenses
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       category_id query string false "Filter by category"
// @Success     200 {object} map[string]interface{} "Paginated expenses"
// @Router      /budget/expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
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

	var categoryID *string
	if v := c.Query("category_id"); v != "" {
		categoryID = &v
	}

	result, err := h.expenseService.GetUserExpenses(userID, page, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles fetching a single expense
// @Summary     Get an expense
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]interface{} "Expense"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budget/expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles expense updates
// @Summary     Update an expense
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Param       request body ExpenseRequest true "Expense data"
// @Success     200 {object} map[string]interface{} "Updated expense"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budget/expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles expense deletion
// @Summary     Delete an expense
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budget/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
