package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "daybook/internal/errors"
	"daybook/internal/pagination"
	"daybook/internal/services"
)

// VaultHandler handles password vault requests
type VaultHandler struct {
	vaultService services.VaultServicer
}

// NewVaultHandler creates a new VaultHandler
func NewVaultHandler(vaultService services.VaultServicer) *VaultHandler {
	return &VaultHandler{vaultService: vaultService}
}

// CreateVaultItemRequest represents the vault item creation payload
type CreateVaultItemRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Username string `json:"username" binding:"max=255"`
	URL      string `json:"url" binding:"omitempty,max=2048"`
	Category string `json:"category" binding:"max=100"`
	Password string `json:"password" binding:"required,max=1024"`
	Notes    string `json:"notes" binding:"max=10000"`
}

// UpdateVaultItemRequest represents the vault item update payload.
// A nil password leaves the stored password untouched; an empty notes
// string clears the stored notes.
type UpdateVaultItemRequest struct {
	Title    string  `json:"title" binding:"omitempty,max=255"`
	Username string  `json:"username" binding:"omitempty,max=255"`
	URL      string  `json:"url" binding:"omitempty,max=2048"`
	Category string  `json:"category" binding:"omitempty,max=100"`
	Password *string `json:"password" binding:"omitempty,max=1024"`
	Notes    *string `json:"notes" binding:"omitempty,max=10000"`
}

// CreateItem handles vault item creation
// @Summary     Create a vault item
// @Tags        vault
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateVaultItemRequest true "Item data"
// @Success     201 {object} map[string]interface{} "Created item (metadata only)"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /vault [post]
func (h *VaultHandler) CreateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateVaultItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.vaultService.CreateItem(userID, req.Title, req.Username, req.URL, req.Category, req.Password, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// ListItems handles listing vault items (metadata only, no secrets)
// @Summary     List vault items
// @Tags        vault
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated items"
// @Router      /vault [get]
func (h *VaultHandler) ListItems(c *gin.Context) {
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

	result, err := h.vaultService.GetUserItems(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetItemDetails handles fetching a vault item with its decrypted secrets
// @Summary     Get a vault item with secrets
// @Tags        vault
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Success     200 {object} services.VaultItemDetails "Item with password and notes"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /vault/{id} [get]
func (h *VaultHandler) GetItemDetails(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	details, err := h.vaultService.GetItemDetails(userID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// UpdateItem handles vault item updates
// @Summary     Update a vault item
// @Tags        vault
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Param       request body UpdateVaultItemRequest true "Item data"
// @Success     200 {object} map[string]interface{} "Updated item"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /vault/{id} [put]
func (h *VaultHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateVaultItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.vaultService.UpdateItem(userID, itemID, req.Title, req.Username, req.URL, req.Category, req.Password, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem handles vault item deletion
// @Summary     Delete a vault item
// @Tags        vault
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /vault/{id} [delete]
func (h *VaultHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.vaultService.DeleteItem(userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
