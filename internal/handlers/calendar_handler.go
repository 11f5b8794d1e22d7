package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "daybook/internal/errors"
	"daybook/internal/models"
	"daybook/internal/services"
)

// CalendarHandler handles connected calendar accounts and sync requests
type CalendarHandler struct {
	accountService services.CalendarAccountServicer
	syncService    services.SyncServicer
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(accountService services.CalendarAccountServicer, syncService services.SyncServicer) *CalendarHandler {
	return &CalendarHandler{
		accountService: accountService,
		syncService:    syncService,
	}
}

// ConnectRequest represents the OAuth completion payload
type ConnectRequest struct {
	Code  string `json:"code" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

// SetSyncEnabledRequest represents the sync toggle payload
type SetSyncEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// GetAuthURL starts the OAuth flow for a remote provider
// @Summary     Get the OAuth consent URL for a provider
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       provider path string true "Provider name"
// @Success     200 {object} map[string]interface{} "Consent URL"
// @Failure     400 {object} ErrorResponse "Unknown provider"
// @Router      /calendar/accounts/{provider}/auth-url [get]
func (h *CalendarHandler) GetAuthURL(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	url, err := h.accountService.AuthURL(userID, c.Param("provider"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_url": url})
}

// Connect completes the connection flow for a provider. The local ICS
// provider needs no credentials; remote providers exchange the OAuth
// authorization code from the request body.
// @Summary     Connect a calendar account
// @Tags        calendar
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       provider path string true "Provider name"
// @Param       request body ConnectRequest false "Authorization code (remote providers only)"
// @Success     200 {object} map[string]interface{} "Connected account"
// @Failure     401 {object} ErrorResponse "Token exchange failed"
// @Router      /calendar/accounts/{provider}/connect [post]
func (h *CalendarHandler) Connect(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	provider := c.Param("provider")
	if provider == models.ProviderICS {
		account, err := h.accountService.ConnectLocal(userID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account": account})
		return
	}

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.Connect(c.Request.Context(), userID, provider, req.Code, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// ListAccounts lists the user's connected calendar accounts
// @Summary     List calendar accounts
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Accounts"
// @Router      /calendar/accounts [get]
func (h *CalendarHandler) ListAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.GetUserAccounts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// SetSyncEnabled toggles sync for one account. The toggle is independent
// of the account's auth state.
// @Summary     Enable or disable sync for an account
// @Tags        calendar
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       provider path string true "Provider name"
// @Param       request body SetSyncEnabledRequest true "Toggle"
// @Success     200 {object} map[string]interface{} "Updated account"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /calendar/accounts/{provider}/sync-enabled [put]
func (h *CalendarHandler) SetSyncEnabled(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetSyncEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.SetSyncEnabled(userID, c.Param("provider"), *req.Enabled)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// SignOut signs an account out and discards its credentials
// @Summary     Sign a calendar account out
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       provider path string true "Provider name"
// @Success     204 "Signed out"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /calendar/accounts/{provider} [delete]
func (h *CalendarHandler) SignOut(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.SignOut(userID, c.Param("provider")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SyncAll pushes every local event to the connected providers
// @Summary     Sync all events now
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Per-item failures, empty when clean"
// @Router      /calendar/sync [post]
func (h *CalendarHandler) SyncAll(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	failures, err := h.syncService.SyncAll(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if failures == nil {
		failures = []services.SyncFailure{}
	}

	c.JSON(http.StatusOK, gin.H{"failures": failures})
}

// RemoteAgenda reads the remote provider's expanded agenda
// @Summary     Fetch the remote agenda
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       from query string true "Start day (YYYY-MM-DD)"
// @Param       to query string true "End day (YYYY-MM-DD)"
// @Success     200 {object} map[string]interface{} "Remote events"
// @Failure     401 {object} ErrorResponse "Not authenticated"
// @Router      /calendar/agenda [get]
func (h *CalendarHandler) RemoteAgenda(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, err := time.Parse(dayLayout, c.Query("from"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be YYYY-MM-DD"))
		return
	}
	to, err := time.Parse(dayLayout, c.Query("to"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be YYYY-MM-DD"))
		return
	}

	events, err := h.syncService.RemoteAgenda(c.Request.Context(), userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
