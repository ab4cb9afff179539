package oauth

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/domain"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Google implements IdentityProvider against Google OAuth2.
type Google struct {
	conf *oauth2.Config
}

// NewGoogle builds the adapter.
func NewGoogle(cfg config.OAuthProviderConfig) *Google {
	return &Google{conf: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}}
}

// Name identifies the provider.
func (g *Google) Name() domain.AuthProvider { return domain.ProviderGoogle }

// AuthURL returns the consent page URL.
func (g *Google) AuthURL(state string) string {
	return g.conf.AuthCodeURL(state)
}

// Exchange trades the callback code for the user's profile.
func (g *Google) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange: %w", err)
	}

	resp, err := g.conf.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("google userinfo: %s", resp.Status)
	}

	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("no email provided by google")
	}
	return &Profile{Email: info.Email, FullName: info.Name, ExternalID: info.ID}, nil
}
