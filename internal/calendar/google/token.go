package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"daybook/internal/logger"
	"daybook/internal/secretstore"
)

// storeTokenSource keeps the credential set in the secret store and uses
// the OAuth2 config's token endpoint to refresh it on demand.
type storeTokenSource struct {
	conf       *oauth2.Config
	secrets    secretstore.Store
	accessKey  string
	refreshKey string
}

// NewStoreTokenSource creates a TokenSource persisting tokens under the
// given secret-store keys.
func NewStoreTokenSource(conf *oauth2.Config, secrets secretstore.Store, accessKey, refreshKey string) TokenSource {
	return &storeTokenSource{
		conf:       conf,
		secrets:    secrets,
		accessKey:  accessKey,
		refreshKey: refreshKey,
	}
}

// AccessToken returns the stored access token.
func (s *storeTokenSource) AccessToken(_ context.Context) (string, error) {
	token, err := s.secrets.Retrieve(s.accessKey)
	if err != nil {
		return "", fmt.Errorf("google: no access token: %w", err)
	}
	return token, nil
}

// Refresh redeems the stored refresh token for a new access token and
// persists the result. Persist failures are logged, not fatal: the
// in-memory token is still valid for the retry that triggered the
// refresh.
func (s *storeTokenSource) Refresh(ctx context.Context) (string, error) {
	refresh, err := s.secrets.Retrieve(s.refreshKey)
	if err != nil {
		return "", fmt.Errorf("google: no refresh token: %w", err)
	}

	tok, err := s.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}).Token()
	if err != nil {
		return "", fmt.Errorf("google: refresh: %w", err)
	}

	if err := s.secrets.Save(tok.AccessToken, s.accessKey); err != nil {
		logger.Get().Warnw("could not persist refreshed access token", "error", err)
	}
	if tok.RefreshToken != "" && tok.RefreshToken != refresh {
		if err := s.secrets.Save(tok.RefreshToken, s.refreshKey); err != nil {
			logger.Get().Warnw("could not persist rotated refresh token", "error", err)
		}
	}
	return tok.AccessToken, nil
}
