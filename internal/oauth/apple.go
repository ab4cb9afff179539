package oauth

import (
	"context"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/oauth2"

	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/domain"
)

const appleJWKSURL = "https://appleid.apple.com/auth/keys"

// Apple implements IdentityProvider against Sign in with Apple. The profile
// comes from the id_token in the token response, verified against Apple's
// published JWKS. The client secret must be the pre-generated signed JWT
// Apple requires.
type Apple struct {
	conf    *oauth2.Config
	jwksURL string
}

// NewApple builds the adapter.
func NewApple(cfg config.OAuthProviderConfig) *Apple {
	return &Apple{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email", "name"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://appleid.apple.com/auth/authorize",
				TokenURL: "https://appleid.apple.com/auth/token",
			},
		},
		jwksURL: appleJWKSURL,
	}
}

// Name identifies the provider.
func (a *Apple) Name() domain.AuthProvider { return domain.ProviderApple }

// AuthURL returns the consent page URL. Apple requires response_mode
// form_post when requesting scopes.
func (a *Apple) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "form_post"))
}

// Exchange trades the callback code for the user's profile.
func (a *Apple) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("apple code exchange: %w", err)
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, fmt.Errorf("apple token response missing id_token")
	}

	keySet, err := jwk.Fetch(ctx, a.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("fetch apple jwks: %w", err)
	}

	idToken, err := jwt.Parse([]byte(rawIDToken),
		jwt.WithKeySet(keySet),
		jwt.WithAudience(a.conf.ClientID),
		jwt.WithIssuer("https://appleid.apple.com"),
	)
	if err != nil {
		return nil, fmt.Errorf("verify apple id_token: %w", err)
	}

	email, _ := idToken.Get("email")
	emailStr, _ := email.(string)
	if emailStr == "" {
		return nil, fmt.Errorf("no email provided by apple")
	}

	// Apple only sends the name on the first authorization; derive a
	// placeholder from the address otherwise.
	fullName := strings.SplitN(emailStr, "@", 2)[0]

	return &Profile{Email: emailStr, FullName: fullName, ExternalID: idToken.Subject()}, nil
}
