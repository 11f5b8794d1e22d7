package services

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"daybook/internal/calendar/google"
	apperrors "daybook/internal/errors"
	"daybook/internal/logger"
	"daybook/internal/models"
	"daybook/internal/secretstore"
)

// calendarAccountService manages connected calendar accounts and their
// credential sets. Tokens never touch the accounts table; they live in
// the secret store under per-account keys.
type calendarAccountService struct {
	db        *gorm.DB
	secrets   secretstore.Store
	oauthConf *oauth2.Config
}

// NewCalendarAccountService creates a new CalendarAccountServicer.
func NewCalendarAccountService(db *gorm.DB, secrets secretstore.Store, oauthConf *oauth2.Config) CalendarAccountServicer {
	return &calendarAccountService{db: db, secrets: secrets, oauthConf: oauthConf}
}

// upsertAccount finds or creates the user's account row for a provider.
func (s *calendarAccountService) upsertAccount(userID, provider string) (*models.CalendarAccount, error) {
	var account models.CalendarAccount
	err := s.db.Where(models.CalendarAccount{UserID: userID, Provider: provider}).
		Attrs(models.CalendarAccount{State: models.AuthStateSignedOut, SyncEnabled: true}).
		FirstOrCreate(&account).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// AuthURL starts the OAuth2 flow for the remote provider. The account id
// doubles as the state parameter, so the callback can be matched back to
// the row that initiated the flow.
func (s *calendarAccountService) AuthURL(userID, provider string) (string, error) {
	if provider != models.ProviderGoogle {
		return "", apperrors.ErrProviderNotFound
	}

	account, err := s.upsertAccount(userID, provider)
	if err != nil {
		return "", err
	}

	if err := s.db.Model(account).Update("state", models.AuthStateAuthenticating).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return google.AuthURL(s.oauthConf, account.ID), nil
}

// Connect finishes the OAuth2 flow: exchanges the authorization code,
// stores the token pair in the secret store, and marks the account
// signed in. A failed exchange rolls the account back to signed out so
// the user can restart cleanly.
func (s *calendarAccountService) Connect(ctx context.Context, userID, provider, code, email string) (*models.CalendarAccount, error) {
	if provider != models.ProviderGoogle {
		return nil, apperrors.ErrProviderNotFound
	}

	account, err := s.upsertAccount(userID, provider)
	if err != nil {
		return nil, err
	}

	tok, err := google.Exchange(ctx, s.oauthConf, code)
	if err != nil {
		if dbErr := s.db.Model(account).Update("state", models.AuthStateSignedOut).Error; dbErr != nil {
			logger.Get().Errorw("could not reset account state after failed exchange",
				"account_id", account.ID, "error", dbErr)
		}
		return nil, apperrors.Wrap(apperrors.ErrTokenExchangeFailed, err)
	}

	if err := s.secrets.Save(tok.AccessToken, account.AccessTokenKey()); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if tok.RefreshToken != "" {
		if err := s.secrets.Save(tok.RefreshToken, account.RefreshTokenKey()); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	updates := map[string]interface{}{"state": models.AuthStateSignedIn}
	if email != "" {
		updates["email"] = email
	}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account.State = models.AuthStateSignedIn
	if email != "" {
		account.Email = email
	}
	return account, nil
}

// ConnectLocal connects the on-disk calendar, which needs no credentials
// and is signed in by definition.
func (s *calendarAccountService) ConnectLocal(userID string) (*models.CalendarAccount, error) {
	account, err := s.upsertAccount(userID, models.ProviderICS)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(account).Update("state", models.AuthStateSignedIn).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.State = models.AuthStateSignedIn
	return account, nil
}

// GetUserAccounts lists the user's connected calendar accounts.
func (s *calendarAccountService) GetUserAccounts(userID string) ([]models.CalendarAccount, error) {
	var accounts []models.CalendarAccount
	if err := s.db.Where("user_id = ?", userID).Order("provider ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccount retrieves one provider's account for a user.
func (s *calendarAccountService) GetAccount(userID, provider string) (*models.CalendarAccount, error) {
	var account models.CalendarAccount
	if err := s.db.Where("user_id = ? AND provider = ?", userID, provider).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// SetSyncEnabled flips the per-account sync toggle. The toggle is
// independent of the authentication state, so it can be turned on or off
// whether or not the account is signed in.
func (s *calendarAccountService) SetSyncEnabled(userID, provider string, enabled bool) (*models.CalendarAccount, error) {
	account, err := s.GetAccount(userID, provider)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(account).Update("sync_enabled", enabled).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.SyncEnabled = enabled
	return account, nil
}

// SignOut clears the stored credential set and returns the account to
// the signed-out state. The row itself survives so the sync toggle and
// provider association are remembered for the next sign-in.
func (s *calendarAccountService) SignOut(userID, provider string) error {
	account, err := s.GetAccount(userID, provider)
	if err != nil {
		return err
	}

	if err := s.secrets.Delete(account.AccessTokenKey()); err != nil {
		logger.Get().Warnw("failed to delete access token", "account_id", account.ID, "error", err)
	}
	if err := s.secrets.Delete(account.RefreshTokenKey()); err != nil {
		logger.Get().Warnw("failed to delete refresh token", "account_id", account.ID, "error", err)
	}

	updates := map[string]interface{}{"state": models.AuthStateSignedOut, "email": ""}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
