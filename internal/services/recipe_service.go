package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "daybook/internal/errors"
	"daybook/internal/models"
	"daybook/internal/pagination"
)

// recipeService handles recipe business logic.
type recipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeServicer.
func NewRecipeService(db *gorm.DB) RecipeServicer {
	return &recipeService{db: db}
}

// CreateRecipe creates a new recipe.
func (s *recipeService) CreateRecipe(userID, name, ingredients, instructions string, servings, prepMinutes int, tags string) (*models.Recipe, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recipe name is required")
	}
	if servings < 0 || prepMinutes < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "servings and prep minutes must not be negative")
	}

	recipe := &models.Recipe{
		UserID:       userID,
		Name:         name,
		Ingredients:  ingredients,
		Instructions: instructions,
		Servings:     servings,
		PrepMinutes:  prepMinutes,
		Tags:         tags,
	}

	if err := s.db.Create(recipe).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return recipe, nil
}

// GetUserRecipes retrieves a paginated list of recipes for a user.
func (s *recipeService) GetUserRecipes(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Recipe], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Recipe{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recipes []models.Recipe
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&recipes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(recipes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecipeByID retrieves a recipe by ID for a specific user
func (s *recipeService) GetRecipeByID(userID, recipeID string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.Where("id = ? AND user_id = ?", recipeID, userID).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &recipe, nil
}

// UpdateRecipe updates an existing recipe.
func (s *recipeService) UpdateRecipe(userID, recipeID, name, ingredients, instructions string, servings, prepMinutes *int, tags *string) (*models.Recipe, error) {
	recipe, err := s.GetRecipeByID(userID, recipeID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if ingredients != "" {
		updates["ingredients"] = ingredients
	}
	if instructions != "" {
		updates["instructions"] = instructions
	}
	if servings != nil {
		if *servings < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "servings must not be negative")
		}
		updates["servings"] = *servings
	}
	if prepMinutes != nil {
		if *prepMinutes < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "prep minutes must not be negative")
		}
		updates["prep_minutes"] = *prepMinutes
	}
	if tags != nil {
		updates["tags"] = *tags
	}

	if len(updates) > 0 {
		if err := s.db.Model(recipe).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return recipe, nil
}

// DeleteRecipe deletes a recipe.
func (s *recipeService) DeleteRecipe(userID, recipeID string) error {
	recipe, err := s.GetRecipeByID(userID, recipeID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(recipe).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
