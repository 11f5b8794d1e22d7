package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "daybook/internal/errors"
	"daybook/internal/models"
	"daybook/internal/pagination"
)

// validCategoryTypes enumerates the needs/wants/savings split.
var validCategoryTypes = map[models.CategoryType]bool{
	models.CategoryTypeNeeds:   true,
	models.CategoryTypeWants:   true,
	models.CategoryTypeSavings: true,
}

// categoryService handles budget-category business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new budget category
func (s *categoryService) CreateCategory(userID, name string, categoryType models.CategoryType, icon, color string, monthlyLimit int64) (*models.BudgetCategory, error) {
	// Validate input
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !validCategoryTypes[categoryType] {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be needs, wants or savings")
	}
	if monthlyLimit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly limit must not be negative")
	}

	// Check if a category with the same name already exists for this user
	var count int64
	if err := s.db.Model(&models.BudgetCategory{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	category := &models.BudgetCategory{
		UserID:       userID,
		Name:         name,
		Type:         categoryType,
		Icon:         icon,
		Color:        color,
		MonthlyLimit: monthlyLimit,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves a paginated list of categories for a user.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategory], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.BudgetCategory{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.BudgetCategory
	if err := base.Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.BudgetCategory, error) {
	var category models.BudgetCategory
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category. The type is fixed at
// creation time.
func (s *categoryService) UpdateCategory(userID, categoryID, name, icon, color string, monthlyLimit *int64) (*models.BudgetCategory, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	// Update fields if provided
	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}
	if monthlyLimit != nil {
		if *monthlyLimit < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly limit must not be negative")
		}
		updates["monthly_limit"] = *monthlyLimit
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory deletes a category together with every expense in it,
// recurring templates included. Category and expenses go in one
// transaction so a partial cascade can never leave orphans behind.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ? AND user_id = ?", categoryID, userID).
			Delete(&models.Expense{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
