package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"

	"daybook/internal/config"
)

// calendarScope grants read/write access to the user's calendars.
const calendarScope = "https://www.googleapis.com/auth/calendar"

// OAuthConfig builds the OAuth2 authorization-code configuration from
// the app config.
func OAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{calendarScope},
		Endpoint:     oauthgoogle.Endpoint,
	}
}

// AuthURL returns the consent URL the user must visit. AccessTypeOffline
// is required so the token response carries a refresh token.
func AuthURL(conf *oauth2.Config, state string) string {
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for a token pair.
func Exchange(ctx context.Context, conf *oauth2.Config, code string) (*oauth2.Token, error) {
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google: code exchange: %w", err)
	}
	return tok, nil
}
