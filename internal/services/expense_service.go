package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "daybook/internal/errors"
	"daybook/internal/models"
	"daybook/internal/pagination"
	"daybook/internal/recurrence"
)

// expenseService handles expense business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// validateExpenseInput checks the amount and the recurring schedule.
func validateExpenseInput(input ExpenseInput) error {
	if input.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if input.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "expense date is required")
	}
	if input.IsRecurring {
		if !input.Frequency.Repeats() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "a recurring expense needs a repeating frequency")
		}
		if input.ScheduleStart != nil && input.ScheduleEnd != nil && input.ScheduleEnd.Before(*input.ScheduleStart) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "schedule end must not be before its start")
		}
	} else if input.Frequency.Repeats() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "a one-off expense cannot carry a frequency")
	}
	return nil
}

// CreateExpense creates a new expense or recurring template.
func (s *expenseService) CreateExpense(userID string, input ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}

	// The category must exist and belong to the user.
	var category models.BudgetCategory
	if err := s.db.Where("id = ? AND user_id = ?", input.CategoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	frequency := input.Frequency
	if !input.IsRecurring {
		frequency = recurrence.None
	}

	expense := &models.Expense{
		UserID:        userID,
		CategoryID:    input.CategoryID,
		Amount:        input.Amount,
		Date:          input.Date,
		Note:          input.Note,
		IsRecurring:   input.IsRecurring,
		Frequency:     frequency,
		ScheduleStart: input.ScheduleStart,
		ScheduleEnd:   input.ScheduleEnd,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetUserExpenses retrieves a paginated list of expenses, optionally
// narrowed to one category.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, categoryID *string) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if categoryID != nil && *categoryID != "" {
		base = base.Where("category_id = ?", *categoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("Category").Order("date DESC").
		Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense replaces the expense's editable fields. Instances
// already materialized from a recurring template are left alone:
// the new schedule only shapes future materialization.
func (s *expenseService) UpdateExpense(userID, expenseID string, input ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}

	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != expense.CategoryID {
		var category models.BudgetCategory
		if err := s.db.Where("id = ? AND user_id = ?", input.CategoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	expense.CategoryID = input.CategoryID
	expense.Amount = input.Amount
	expense.Date = input.Date
	expense.Note = input.Note
	expense.IsRecurring = input.IsRecurring
	if input.IsRecurring {
		expense.Frequency = input.Frequency
	} else {
		expense.Frequency = recurrence.None
	}
	expense.ScheduleStart = input.ScheduleStart
	expense.ScheduleEnd = input.ScheduleEnd

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// DeleteExpense deletes an expense. Deleting a recurring template stops
// future materialization but keeps the instances it already produced.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
