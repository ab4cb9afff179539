package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/domain"
)

const facebookProfileURL = "https://graph.facebook.com/me"

// Facebook implements IdentityProvider against Facebook Login.
type Facebook struct {
	conf *oauth2.Config
}

// NewFacebook builds the adapter.
func NewFacebook(cfg config.OAuthProviderConfig) *Facebook {
	return &Facebook{conf: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://www.facebook.com/v12.0/dialog/oauth",
			TokenURL: "https://graph.facebook.com/v12.0/oauth/access_token",
		},
	}}
}

// Name identifies the provider.
func (f *Facebook) Name() domain.AuthProvider { return domain.ProviderFacebook }

// AuthURL returns the consent page URL.
func (f *Facebook) AuthURL(state string) string {
	return f.conf.AuthCodeURL(state)
}

// Exchange trades the callback code for the user's profile.
func (f *Facebook) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("facebook code exchange: %w", err)
	}

	query := url.Values{"fields": {"id,name,email"}}
	resp, err := f.conf.Client(ctx, token).Get(facebookProfileURL + "?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("facebook profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("facebook profile: %s", resp.Status)
	}

	var info struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("no email provided by facebook")
	}
	return &Profile{Email: info.Email, FullName: info.Name, ExternalID: info.ID}, nil
}
