package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "daybook/internal/errors"
	"daybook/internal/pagination"
	"daybook/internal/services"
)

// RecipeHandler handles recipe requests
type RecipeHandler struct {
	recipeService services.RecipeServicer
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService services.RecipeServicer) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// CreateRecipeRequest represents the recipe creation payload
type CreateRecipeRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Ingredients  string `json:"ingredients" binding:"max=20000"`
	Instructions string `json:"instructions" binding:"max=20000"`
	Servings     int    `json:"servings" binding:"omitempty,min=0"`
	PrepMinutes  int    `json:"prep_minutes" binding:"omitempty,min=0"`
	Tags         string `json:"tags" binding:"max=500"`
}

// UpdateRecipeRequest represents the recipe update payload
type UpdateRecipeRequest struct {
	Name         string  `json:"name" binding:"omitempty,max=255"`
	Ingredients  string  `json:"ingredients" binding:"omitempty,max=20000"`
	Instructions string  `json:"instructions" binding:"omitempty,max=20000"`
	Servings     *int    `json:"servings" binding:"omitempty,min=0"`
	PrepMinutes  *int    `json:"prep_minutes" binding:"omitempty,min=0"`
	Tags         *string `json:"tags" binding:"omitempty,max=500"`
}

// CreateRecipe handles recipe creation
// @Summary     Create a recipe
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecipeRequest true "Recipe data"
// @Success     201 {object} map[string]interface{} "Created recipe"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recipe, err := h.recipeService.CreateRecipe(userID, req.Name, req.Ingredients, req.Instructions, req.Servings, req.PrepMinutes, req.Tags)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

// ListRecipes handles listing recipes
// @Summary     List recipes
// @Tags        recipes
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated recipes"
// @Router      /recipes [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
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

	result, err := h.recipeService.GetUserRecipes(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecipe handles fetching a single recipe
// @Summary     Get a recipe
// @Tags        recipes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recipe ID"
// @Success     200 {object} map[string]interface{} "Recipe"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipe, err := h.recipeService.GetRecipeByID(userID, recipeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// UpdateRecipe handles recipe updates
// @Summary     Update a recipe
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recipe ID"
// @Param       request body UpdateRecipeRequest true "Recipe data"
// @Success     200 {object} map[string]interface{} "Updated recipe"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /recipes/{id} [put]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(userID, recipeID, req.Name, req.Ingredients, req.Instructions, req.Servings, req.PrepMinutes, req.Tags)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// DeleteRecipe handles recipe deletion
// @Summary     Delete a recipe
// @Tags        recipes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recipe ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recipeService.DeleteRecipe(userID, recipeID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
